package usecase_test

import (
	"context"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/maintenance"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// Repositorios en memoria. Aplican el alcance con Scope.Allows igual que el WHERE de
// postgres; los métodos que un test no usa quedan en la interfaz embebida (nil).

type memWorkOrders struct {
	rows map[string]*entity.WorkOrder
}

func newWorkOrders() *memWorkOrders { return &memWorkOrders{rows: map[string]*entity.WorkOrder{}} }

func (m *memWorkOrders) Create(_ context.Context, wo *entity.WorkOrder) error {
	m.rows[wo.ID] = wo
	return nil
}
func (m *memWorkOrders) Update(_ context.Context, wo *entity.WorkOrder) error {
	m.rows[wo.ID] = wo
	return nil
}
func (m *memWorkOrders) GetByID(_ context.Context, scope access.Scope, id string) (*entity.WorkOrder, error) {
	wo, ok := m.rows[id]
	if !ok || !scope.Allows(wo.Tenancy()) {
		return nil, nil
	}
	return wo, nil
}
func (m *memWorkOrders) List(_ context.Context, scope access.Scope, f repository.WorkOrderFilter, _, _ int) ([]*entity.WorkOrder, error) {
	var out []*entity.WorkOrder
	for _, wo := range m.rows {
		if scope.Allows(wo.Tenancy()) && (f.Status == "" || wo.Status == f.Status) {
			out = append(out, wo)
		}
	}
	return out, nil
}
func (m *memWorkOrders) CountByStatus(_ context.Context, scope access.Scope) (map[string]int, error) {
	out := map[string]int{}
	for _, wo := range m.rows {
		if scope.Allows(wo.Tenancy()) {
			out[wo.Status]++
		}
	}
	return out, nil
}
func (m *memWorkOrders) CountOverdue(_ context.Context, scope access.Scope, now time.Time) (int, error) {
	n := 0
	for _, wo := range m.rows {
		if scope.Allows(wo.Tenancy()) && maintenance.Overdue(wo, now) {
			n++
		}
	}
	return n, nil
}
func (m *memWorkOrders) ExistsOpenForPlan(_ context.Context, planID string) (bool, error) {
	for _, wo := range m.rows {
		if wo.PMPlanID == planID && !maintenance.IsTerminal(wo.Status) {
			return true, nil
		}
	}
	return false, nil
}
func (m *memWorkOrders) byPlan(planID string) []*entity.WorkOrder {
	var out []*entity.WorkOrder
	for _, wo := range m.rows {
		if wo.PMPlanID == planID {
			out = append(out, wo)
		}
	}
	return out
}

type memTemplates struct {
	rows map[string]*entity.WorkOrderTemplate
}

func (m *memTemplates) Create(_ context.Context, t *entity.WorkOrderTemplate) error {
	m.rows[t.ID] = t
	return nil
}
func (m *memTemplates) GetByID(_ context.Context, id string) (*entity.WorkOrderTemplate, error) {
	return m.rows[id], nil
}
func (m *memTemplates) ListByCompany(_ context.Context, companyID string) ([]*entity.WorkOrderTemplate, error) {
	var out []*entity.WorkOrderTemplate
	for _, t := range m.rows {
		if t.CompanyID == companyID {
			out = append(out, t)
		}
	}
	return out, nil
}
func (m *memTemplates) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

type memSequences struct {
	n map[string]int64
}

func (m *memSequences) Next(_ context.Context, companyID, name string) (int64, error) {
	m.n[companyID+"/"+name]++
	return m.n[companyID+"/"+name], nil
}

type memAssets struct {
	repository.AssetRepository
	rows map[string]*entity.Asset
}

func (m *memAssets) GetByID(_ context.Context, scope access.Scope, id string) (*entity.Asset, error) {
	a, ok := m.rows[id]
	if !ok || !scope.Allows(a.Tenancy()) {
		return nil, nil
	}
	return a, nil
}

type memUsers struct {
	repository.UserRepository
	rows       map[string]*entity.User
	activeByCo map[string]int
	byRole     map[string]int
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.rows[u.ID] = u
	return nil
}
func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	m.rows[u.ID] = u
	return nil
}
func (m *memUsers) GetByID(_ context.Context, scope access.Scope, id string) (*entity.User, error) {
	u, ok := m.rows[id]
	if !ok || !scope.Allows(u.Tenancy()) {
		return nil, nil
	}
	return u, nil
}
func (m *memUsers) CountActiveByCompany(_ context.Context, companyID string) (int, error) {
	return m.activeByCo[companyID], nil
}
func (m *memUsers) CountByCustomRole(_ context.Context, roleID string) (int, error) {
	return m.byRole[roleID], nil
}

type memClients struct {
	clients map[string]*entity.ClientCompany
	sites   map[string]*entity.Site
}

func (m *memClients) CreateClient(_ context.Context, c *entity.ClientCompany) error {
	m.clients[c.ID] = c
	return nil
}
func (m *memClients) GetClient(_ context.Context, scope access.Scope, id string) (*entity.ClientCompany, error) {
	c, ok := m.clients[id]
	if !ok || !scope.Allows(c.Tenancy()) {
		return nil, nil
	}
	return c, nil
}
func (m *memClients) ListClients(_ context.Context, scope access.Scope, _, _ int) ([]*entity.ClientCompany, error) {
	var out []*entity.ClientCompany
	for _, c := range m.clients {
		if scope.Allows(c.Tenancy()) {
			out = append(out, c)
		}
	}
	return out, nil
}
func (m *memClients) CreateSite(_ context.Context, s *entity.Site) error {
	m.sites[s.ID] = s
	return nil
}
func (m *memClients) GetSite(_ context.Context, scope access.Scope, id string) (*entity.Site, error) {
	s, ok := m.sites[id]
	if !ok || !scope.Allows(s.Tenancy()) {
		return nil, nil
	}
	return s, nil
}
func (m *memClients) ListSites(_ context.Context, scope access.Scope, clientID string) ([]*entity.Site, error) {
	var out []*entity.Site
	for _, s := range m.sites {
		if s.ClientCompanyID == clientID && scope.Allows(s.Tenancy()) {
			out = append(out, s)
		}
	}
	return out, nil
}

type memPlans struct {
	repository.PlanRepository
	byCompany map[string]*entity.SubscriptionPlan
	rows      map[string]*entity.SubscriptionPlan
}

func (m *memPlans) GetByCompany(_ context.Context, companyID string) (*entity.SubscriptionPlan, error) {
	return m.byCompany[companyID], nil
}
func (m *memPlans) GetByID(_ context.Context, id string) (*entity.SubscriptionPlan, error) {
	return m.rows[id], nil
}
func (m *memPlans) List(context.Context) ([]*entity.SubscriptionPlan, error) {
	var out []*entity.SubscriptionPlan
	for _, p := range m.rows {
		out = append(out, p)
	}
	return out, nil
}
func (m *memPlans) Create(_ context.Context, p *entity.SubscriptionPlan) error {
	m.rows[p.ID] = p
	return nil
}
func (m *memPlans) Update(_ context.Context, p *entity.SubscriptionPlan) error {
	m.rows[p.ID] = p
	return nil
}

type memCompanies struct {
	repository.CompanyRepository
	rows    map[string]*entity.Company
	modules map[string][]string
}

func (m *memCompanies) GetByID(_ context.Context, scope access.Scope, id string) (*entity.Company, error) {
	c, ok := m.rows[id]
	if !ok || !scope.AllowsCompany(c.ID) {
		return nil, nil
	}
	return c, nil
}
func (m *memCompanies) Update(_ context.Context, c *entity.Company) error {
	m.rows[c.ID] = c
	return nil
}
func (m *memCompanies) SetModules(_ context.Context, companyID string, modules []string, _ time.Time) error {
	m.modules[companyID] = modules
	return nil
}

type memRoles struct {
	rows map[string]*entity.CustomRole
}

func (m *memRoles) Create(_ context.Context, r *entity.CustomRole) error {
	m.rows[r.ID] = r
	return nil
}
func (m *memRoles) GetByID(_ context.Context, id string) (*entity.CustomRole, error) {
	return m.rows[id], nil
}
func (m *memRoles) Update(_ context.Context, r *entity.CustomRole) error {
	m.rows[r.ID] = r
	return nil
}
func (m *memRoles) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}
func (m *memRoles) ListByCompany(_ context.Context, companyID string) ([]*entity.CustomRole, error) {
	var out []*entity.CustomRole
	for _, r := range m.rows {
		if r.CompanyID == companyID {
			out = append(out, r)
		}
	}
	return out, nil
}

type memPMPlans struct {
	repository.PMPlanRepository
	rows map[string]*entity.PMPlan
}

func (m *memPMPlans) Create(_ context.Context, p *entity.PMPlan) error {
	m.rows[p.ID] = p
	return nil
}
func (m *memPMPlans) GetByID(_ context.Context, scope access.Scope, id string) (*entity.PMPlan, error) {
	p, ok := m.rows[id]
	if !ok || !scope.Allows(p.Tenancy()) {
		return nil, nil
	}
	return p, nil
}
func (m *memPMPlans) Update(_ context.Context, p *entity.PMPlan) error {
	m.rows[p.ID] = p
	return nil
}
func (m *memPMPlans) ListDue(_ context.Context, now time.Time, _ int) ([]*entity.PMPlan, error) {
	var out []*entity.PMPlan
	for _, p := range m.rows {
		if maintenance.Due(p, now) {
			out = append(out, p)
		}
	}
	return out, nil
}

// pmTx ejecuta la función con los repos en memoria, sin transacción.
type pmTx struct {
	plans *memPMPlans
	wos   *memWorkOrders
	seq   *memSequences
}

func (t *pmTx) RunPM(_ context.Context, fn func(repository.PMPlanRepository, repository.WorkOrderRepository, repository.SequenceRepository) error) error {
	return fn(t.plans, t.wos, t.seq)
}

type memDocuments struct {
	rows map[string]*entity.ComplianceDocument
}

func (m *memDocuments) Create(_ context.Context, d *entity.ComplianceDocument) error {
	m.rows[d.ID] = d
	return nil
}
func (m *memDocuments) Update(_ context.Context, d *entity.ComplianceDocument) error {
	m.rows[d.ID] = d
	return nil
}
func (m *memDocuments) GetByID(_ context.Context, scope access.Scope, id string) (*entity.ComplianceDocument, error) {
	d, ok := m.rows[id]
	if !ok || !scope.Allows(d.Tenancy()) {
		return nil, nil
	}
	return d, nil
}
func (m *memDocuments) List(_ context.Context, scope access.Scope, f repository.DocumentFilter, _, _ int) ([]*entity.ComplianceDocument, error) {
	var out []*entity.ComplianceDocument
	for _, d := range m.rows {
		if !scope.Allows(d.Tenancy()) {
			continue
		}
		for _, t := range f.Types {
			if d.Type == t {
				out = append(out, d)
				break
			}
		}
	}
	return out, nil
}

type memAttendance struct {
	rows map[string]*entity.AttendanceRecord
}

func (m *memAttendance) Create(_ context.Context, r *entity.AttendanceRecord) error {
	m.rows[r.ID] = r
	return nil
}
func (m *memAttendance) Update(_ context.Context, r *entity.AttendanceRecord) error {
	m.rows[r.ID] = r
	return nil
}
func (m *memAttendance) GetOpenByUser(_ context.Context, userID string) (*entity.AttendanceRecord, error) {
	for _, r := range m.rows {
		if r.UserID == userID && r.CheckOutAt == nil {
			return r, nil
		}
	}
	return nil, nil
}
func (m *memAttendance) List(_ context.Context, scope access.Scope, f repository.AttendanceFilter, _, _ int) ([]*entity.AttendanceRecord, error) {
	var out []*entity.AttendanceRecord
	for _, r := range m.rows {
		if scope.Allows(r.Tenancy()) && (f.UserID == "" || r.UserID == f.UserID) {
			out = append(out, r)
		}
	}
	return out, nil
}

type spyInvalidator struct{ ids []string }

func (s *spyInvalidator) Invalidate(id string) { s.ids = append(s.ids, id) }

// ─────────────────────────────────────────────────────────────────────────────
// Datos base: empresa c1 con cliente cc1 y sede s1; empresa c2 aparte.
// ─────────────────────────────────────────────────────────────────────────────

func newClients() *memClients {
	return &memClients{
		clients: map[string]*entity.ClientCompany{
			"cc1": {ID: "cc1", CompanyID: "c1", Name: "Hospital Norte", Status: "active"},
			"cc2": {ID: "cc2", CompanyID: "c2", Name: "Planta Sur", Status: "active"},
		},
		sites: map[string]*entity.Site{
			"s1": {ID: "s1", CompanyID: "c1", ClientCompanyID: "cc1", Name: "Sede principal"},
			"s2": {ID: "s2", CompanyID: "c2", ClientCompanyID: "cc2", Name: "Bodega"},
		},
	}
}

func guard() *access.Guard { return access.NewGuard(access.DefaultTable(), nil) }

func fixed(key access.RoleKey, userID, companyID, clientID, siteID string) access.Identity {
	return access.Identity{UserID: userID, Role: access.FixedRole{Key: key}, CompanyID: companyID, ClientCompanyID: clientID, SiteID: siteID}
}

func adminEmpresa(companyID string) access.Identity {
	return fixed(access.RoleAdminEmpresa, "u-admin-"+companyID, companyID, "", "")
}

func superAdmin() access.Identity {
	return fixed(access.RoleSuperAdmin, "u-root", "", "", "")
}

// conRol es un usuario de la empresa con un rol personalizado.
func conRol(companyID string, perms ...string) access.Identity {
	return access.Identity{
		UserID:    "u-custom-" + companyID,
		Role:      access.NewCustomRole("rol-x", "Personalizado", companyID, perms),
		CompanyID: companyID,
	}
}

func tecnico(userID string) access.Identity {
	return fixed(access.RoleTecnico, userID, "c1", "", "")
}

func supervisor() access.Identity {
	return fixed(access.RoleSupervisor, "u-sup", "c1", "", "")
}

func operario() access.Identity {
	return fixed(access.RoleClienteOperario, "u-op", "c1", "cc1", "s1")
}
