package entity

import "github.com/jhoicas/Mantenimiento-api/internal/domain/access"

// Tenancy devuelve las columnas de tenant de la fila.
func (a *Asset) Tenancy() access.Tenancy {
	return access.Tenancy{CompanyID: a.CompanyID, ClientCompanyID: a.ClientCompanyID, SiteID: a.SiteID}
}

func (w *WorkOrder) Tenancy() access.Tenancy {
	return access.Tenancy{CompanyID: w.CompanyID, ClientCompanyID: w.ClientCompanyID, SiteID: w.SiteID}
}

func (p *PMPlan) Tenancy() access.Tenancy {
	return access.Tenancy{CompanyID: p.CompanyID, ClientCompanyID: p.ClientCompanyID, SiteID: p.SiteID}
}

func (d *ComplianceDocument) Tenancy() access.Tenancy {
	return access.Tenancy{CompanyID: d.CompanyID, ClientCompanyID: d.ClientCompanyID, SiteID: d.SiteID}
}

func (r *AttendanceRecord) Tenancy() access.Tenancy {
	return access.Tenancy{CompanyID: r.CompanyID, ClientCompanyID: r.ClientCompanyID, SiteID: r.SiteID}
}

func (u *User) Tenancy() access.Tenancy {
	return access.Tenancy{CompanyID: u.CompanyID, ClientCompanyID: u.ClientCompanyID, SiteID: u.SiteID}
}

func (s *Site) Tenancy() access.Tenancy {
	return access.Tenancy{CompanyID: s.CompanyID, ClientCompanyID: s.ClientCompanyID, SiteID: s.ID}
}

func (c *ClientCompany) Tenancy() access.Tenancy {
	return access.Tenancy{CompanyID: c.CompanyID, ClientCompanyID: c.ID}
}
