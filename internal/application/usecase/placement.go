package usecase

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// placer decide las columnas de tenant de un registro nuevo a partir de la sede o el
// cliente indicados, o del propio alcance cuando no se indican.
type placer struct {
	clients repository.ClientRepository
}

func (p placer) place(ctx context.Context, scope access.Scope, companyID, clientID, siteID string) (access.Tenancy, error) {
	var t access.Tenancy
	switch {
	case siteID != "":
		site, err := p.clients.GetSite(ctx, scope, siteID)
		if err != nil {
			return t, err
		}
		if site == nil {
			return t, domain.InvalidInput("sede no encontrada", map[string]string{"site_id": siteID})
		}
		if clientID != "" && site.ClientCompanyID != clientID {
			return t, domain.InvalidInput("la sede no pertenece a la empresa cliente", map[string]string{"site_id": siteID})
		}
		t = site.Tenancy()
	case clientID != "":
		client, err := p.clients.GetClient(ctx, scope, clientID)
		if err != nil {
			return t, err
		}
		if client == nil {
			return t, domain.InvalidInput("empresa cliente no encontrada", map[string]string{"client_company_id": clientID})
		}
		t = client.Tenancy()
	case scope.ClientCompanyID != "":
		if scope.CompanyID == "" {
			return t, domain.Forbidden("el usuario no tiene empresa asignada")
		}
		t = access.Tenancy{CompanyID: scope.CompanyID, ClientCompanyID: scope.ClientCompanyID, SiteID: scope.SiteID}
	default:
		c, err := scope.CompanyFor(companyID)
		if err != nil {
			return t, err
		}
		t = access.Tenancy{CompanyID: c}
	}
	if companyID != "" && t.CompanyID != companyID {
		return t, domain.Forbidden("no puede operar sobre otra empresa")
	}
	if !scope.Allows(t) {
		return t, domain.Forbidden("fuera del alcance del usuario")
	}
	return t, nil
}
