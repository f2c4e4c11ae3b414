package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/mkante/gestloc/internal/api"
	"github.com/mkante/gestloc/internal/domain"
)

// devToken is the bearer token issued by the dev login. Anything else is
// rejected so the client's 401 path can be exercised.
const devToken = "dev-token"

type table[T any] struct {
	items  []T
	nextID int64
	id     func(T) int64
	setID  func(*T, int64)
}

func newTable[T any](id func(T) int64, setID func(*T, int64)) *table[T] {
	return &table[T]{nextID: 1, id: id, setID: setID}
}

func (t *table[T]) insert(item T) T {
	t.setID(&item, t.nextID)
	t.nextID++
	t.items = append(t.items, item)

	return item
}

func (t *table[T]) get(id int64) (*T, bool) {
	for i := range t.items {
		if t.id(t.items[i]) == id {
			return &t.items[i], true
		}
	}

	return nil, false
}

func (t *table[T]) remove(id int64) bool {
	for i := range t.items {
		if t.id(t.items[i]) == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return true
		}
	}

	return false
}

type server struct {
	mu sync.Mutex

	cities    *table[domain.City]
	buildings *table[domain.Building]
	floors    *table[domain.Floor]
	units     *table[domain.Unit]
	tenants   *table[domain.Tenant]
	leases    *table[domain.Lease]
	payments  *table[domain.Payment]
	suppliers *table[domain.Supplier]
	invoices  *table[domain.SupplierInvoice]
	expenses  *table[domain.Expense]
	users     *table[domain.User]

	// exits replays an identical exit submission instead of re-applying it.
	exits  map[string]*api.ExitResponse
	nextID int64
}

func newServer() *server {
	s := &server{
		cities:    newTable(func(v domain.City) int64 { return v.ID }, func(v *domain.City, id int64) { v.ID = id }),
		buildings: newTable(func(v domain.Building) int64 { return v.ID }, func(v *domain.Building, id int64) { v.ID = id }),
		floors:    newTable(func(v domain.Floor) int64 { return v.ID }, func(v *domain.Floor, id int64) { v.ID = id }),
		units:     newTable(func(v domain.Unit) int64 { return v.ID }, func(v *domain.Unit, id int64) { v.ID = id }),
		tenants:   newTable(func(v domain.Tenant) int64 { return v.ID }, func(v *domain.Tenant, id int64) { v.ID = id }),
		leases:    newTable(func(v domain.Lease) int64 { return v.ID }, func(v *domain.Lease, id int64) { v.ID = id }),
		payments:  newTable(func(v domain.Payment) int64 { return v.ID }, func(v *domain.Payment, id int64) { v.ID = id }),
		suppliers: newTable(func(v domain.Supplier) int64 { return v.ID }, func(v *domain.Supplier, id int64) { v.ID = id }),
		invoices:  newTable(func(v domain.SupplierInvoice) int64 { return v.ID }, func(v *domain.SupplierInvoice, id int64) { v.ID = id }),
		expenses:  newTable(func(v domain.Expense) int64 { return v.ID }, func(v *domain.Expense, id int64) { v.ID = id }),
		users:     newTable(func(v domain.User) int64 { return v.ID }, func(v *domain.User, id int64) { v.ID = id }),
		exits:     map[string]*api.ExitResponse{},
		nextID:    1000,
	}

	s.seed()

	return s
}

func (s *server) routes(r chi.Router) {
	r.Post("/auth/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.auth)

		r.Get("/auth/me", s.me)
		r.Put("/auth/update-profile", s.updateProfile)

		mountCRUD(r, "/villes", s, s.cities, nil)
		mountCRUD(r, "/biens", s, s.buildings, s.decorateBuilding)
		mountCRUD(r, "/etages", s, s.floors, nil)
		mountCRUD(r, "/appartements", s, s.units, nil)
		mountCRUD(r, "/locataires", s, s.tenants, nil)
		mountCRUD(r, "/contrats", s, s.leases, s.decorateLease)
		mountCRUD(r, "/fournisseurs", s, s.suppliers, nil)
		mountCRUD(r, "/factures-fournisseurs", s, s.invoices, s.decorateInvoice)
		mountCRUD(r, "/depenses", s, s.expenses, s.decorateExpense)

		r.Get("/paiements/stats", s.paymentStats)
		mountCRUD(r, "/paiements", s, s.payments, nil)

		r.Post("/contrats/{id}/sortie", s.leaseExit)
		r.Put("/factures-fournisseurs/{id}/payer", s.payInvoice)
		r.Put("/depenses/{id}/payer", s.payExpense)

		r.Get("/admin/users", s.listUsers)
		r.Put("/admin/users/{id}", s.setRole)
	})
}

func (s *server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token != devToken {
			writeError(w, http.StatusUnauthorized, "Session expirée")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// decorate hooks fill denormalized display fields on the way out.
func (s *server) decorateLease(l *domain.Lease) {
	if unit, ok := s.units.get(l.UnitID); ok {
		l.UnitLabel = unit.Label
	}

	if tenant, ok := s.tenants.get(l.TenantID); ok {
		l.TenantName = tenant.Name
	}

	if l.Status == "" {
		l.Status = domain.LeaseActive
		if l.EndDate != nil {
			l.Status = domain.LeaseEnded
		}
	}
}

func (s *server) decorateBuilding(b *domain.Building) {
	if b.Currency == "" {
		if city, ok := s.cities.get(b.CityID); ok {
			b.Currency = city.Currency
		}
	}
}

func (s *server) decorateInvoice(inv *domain.SupplierInvoice) {
	if inv.Status == "" {
		inv.Status = domain.SettlementUnpaid
	}

	if sup, ok := s.suppliers.get(inv.SupplierID); ok {
		inv.SupplierName = sup.Name
	}

	if b, ok := s.buildings.get(inv.BuildingID); ok {
		inv.BuildingName = b.Name
	}
}

func (s *server) decorateExpense(e *domain.Expense) {
	if e.Status == "" {
		e.Status = domain.SettlementUnpaid
	}
}

func mountCRUD[T any](r chi.Router, path string, s *server, tbl *table[T], decorate func(*T)) {
	r.Get(path, func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		out := make([]T, len(tbl.items))
		copy(out, tbl.items)

		if decorate != nil {
			for i := range out {
				decorate(&out[i])
			}
		}

		writeJSON(w, http.StatusOK, out)
	})

	r.Post(path, func(w http.ResponseWriter, r *http.Request) {
		var item T
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		created := tbl.insert(item)
		if decorate != nil {
			decorate(&created)
		}

		writeJSON(w, http.StatusCreated, created)
	})

	r.Put(path+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := urlID(r)

		var item T
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		existing, ok := tbl.get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "Introuvable")
			return
		}

		tbl.setID(&item, id)
		*existing = item

		out := item
		if decorate != nil {
			decorate(&out)
		}

		writeJSON(w, http.StatusOK, out)
	})

	r.Delete(path+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if !tbl.remove(urlID(r)) {
			writeError(w, http.StatusNotFound, "Introuvable")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

func (s *server) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users.items {
		if u.Email == creds.Email {
			writeJSON(w, http.StatusOK, map[string]any{"token": devToken, "user": u})
			return
		}
	}

	writeError(w, http.StatusUnauthorized, "Identifiants invalides")
}

func (s *server) me(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, s.users.items[0])
}

func (s *server) updateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := &s.users.items[0]

	if v := r.FormValue("nom"); v != "" {
		u.Name = v
	}

	if v := r.FormValue("email"); v != "" {
		u.Email = v
	}

	if _, hdr, err := r.FormFile("avatar"); err == nil {
		u.Avatar = "/uploads/" + hdr.Filename
	}

	writeJSON(w, http.StatusOK, *u)
}

func (s *server) paymentStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := map[string]domain.Amount{}

	var months []string

	for _, p := range s.payments.items {
		if !p.Paid {
			continue
		}

		month := p.Date.Format("2006-01")
		if _, seen := totals[month]; !seen {
			months = append(months, month)
		}

		totals[month] += p.Amount
	}

	stats := make([]domain.MonthlyStat, 0, len(months))
	for _, m := range months {
		stats = append(stats, domain.MonthlyStat{Month: m, Total: totals[m]})
	}

	writeJSON(w, http.StatusOK, stats)
}

func (s *server) leaseExit(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)

	var req api.ExitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if key := r.Header.Get("Idempotency-Key"); key != "" {
		if resp, ok := s.exits[key]; ok {
			writeJSON(w, http.StatusOK, resp)
			return
		}
	}

	lease, ok := s.leases.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Contrat introuvable")
		return
	}

	if lease.Status == domain.LeaseEnded {
		writeError(w, http.StatusConflict, "Ce contrat est déjà clôturé")
		return
	}

	if req.ExitDate == nil {
		writeError(w, http.StatusBadRequest, "Date de sortie requise")
		return
	}

	lease.EndDate = req.ExitDate
	lease.Status = domain.LeaseEnded

	out := *lease
	s.decorateLease(&out)

	resp := &api.ExitResponse{
		Message: "Sortie enregistrée",
		Lease:   out,
	}

	unpaid := 0
	for _, p := range s.payments.items {
		if p.LeaseID == id && !p.Paid {
			unpaid++
		}
	}

	if unpaid > 0 {
		resp.UnpaidWarning = fmt.Sprintf("%d paiement(s) impayé(s) sur ce contrat", unpaid)
	}

	if req.RestitutionAmount != nil && *req.RestitutionAmount > 0 {
		rid := s.allocID()
		resp.RestitutionID = &rid
	}

	if req.InspectionNote != "" {
		iid := s.allocID()
		resp.InspectionID = &iid
	}

	if key := r.Header.Get("Idempotency-Key"); key != "" {
		s.exits[key] = resp
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) payInvoice(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date domain.Date `json:"date_paiement"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices.get(urlID(r))
	if !ok {
		writeError(w, http.StatusNotFound, "Facture introuvable")
		return
	}

	inv.Status = domain.SettlementPaid
	inv.PaymentDate = &body.Date

	out := *inv
	s.decorateInvoice(&out)

	writeJSON(w, http.StatusOK, out)
}

func (s *server) payExpense(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date domain.Date `json:"date_paiement"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expenses.get(urlID(r))
	if !ok {
		writeError(w, http.StatusNotFound, "Dépense introuvable")
		return
	}

	exp.Status = domain.SettlementPaid
	exp.PaymentDate = &body.Date

	writeJSON(w, http.StatusOK, *exp)
}

func (s *server) listUsers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, s.users.items)
}

func (s *server) setRole(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role domain.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users.get(urlID(r))
	if !ok {
		writeError(w, http.StatusNotFound, "Utilisateur introuvable")
		return
	}

	u.Role = body.Role

	writeJSON(w, http.StatusOK, *u)
}

func (s *server) allocID() int64 {
	id := s.nextID
	s.nextID++

	return id
}

func urlID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
