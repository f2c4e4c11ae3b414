// Package lease drives the exit workflow: ending a lease by contract end
// or early termination, with deposit restitution and an inspection note.
package lease

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkante/gestloc/internal/api"
	"github.com/mkante/gestloc/internal/collections"
	"github.com/mkante/gestloc/internal/domain"
)

var (
	ErrExitDateRequired = errors.New("date de sortie requise")
	ErrNegativeAmount   = errors.New("montant restitué invalide")
	ErrAlreadyEnded     = errors.New("ce contrat est déjà clôturé")
)

//go:generate mockgen -source=service.go -destination=gateway_mock.go -package=lease
type Gateway interface {
	SubmitLeaseExit(ctx context.Context, leaseID int64, req api.ExitRequest, idempotencyKey string) (*api.ExitResponse, error)
}

type Service struct {
	gw   Gateway
	snap *collections.Snapshot
	now  func() domain.Date
}

func NewService(gw Gateway, snap *collections.Snapshot) *Service {
	return &Service{gw: gw, snap: snap, now: domain.Today}
}

// Exit is a pending exit form. Fields are prefilled by OpenExit and may be
// edited before Submit. The idempotency key is fixed at open time so a
// retried submit replays as the same operation.
type Exit struct {
	LeaseID            int64
	TenantName         string
	UnitLabel          string
	Motif              api.ExitMotif
	ExitDate           domain.Date
	InspectionNote     string
	RestitutionAmount  domain.Amount
	RestitutionComment string

	key string
}

// Key is the idempotency key attached to every submit of this exit.
func (e *Exit) Key() string { return e.key }

// OpenExit prefills an exit form for the lease. A termination defaults to
// one month of notice; a contract end keeps the agreed end date when there
// is one. Restitution defaults to the full deposit.
func (s *Service) OpenExit(lease domain.Lease, motif api.ExitMotif) (*Exit, error) {
	if lease.Status == domain.LeaseEnded {
		return nil, ErrAlreadyEnded
	}

	exit := &Exit{
		LeaseID:           lease.ID,
		TenantName:        lease.TenantName,
		UnitLabel:         lease.UnitLabel,
		Motif:             motif,
		RestitutionAmount: lease.Deposit,
		key:               uuid.NewString(),
	}

	switch motif {
	case api.MotifTermination:
		exit.ExitDate = s.now().AddMonths(1)
	case api.MotifContractEnd:
		if lease.EndDate != nil {
			exit.ExitDate = *lease.EndDate
		} else {
			exit.ExitDate = s.now()
		}
	default:
		return nil, fmt.Errorf("motif de sortie inconnu %q", motif)
	}

	if exit.TenantName == "" {
		if tenant, ok := s.snap.Tenants.Get(lease.TenantID); ok {
			exit.TenantName = tenant.Name
		}
	}

	if exit.UnitLabel == "" {
		if unit, ok := s.snap.Units.Get(lease.UnitID); ok {
			exit.UnitLabel = unit.Label
		}
	}

	return exit, nil
}

// Result is the outcome of a confirmed exit. The warning and the two ids
// are independent signals; any of them may be absent.
type Result struct {
	Message       string
	UnpaidWarning string
	RestitutionID *int64
	InspectionID  *int64
}

// Submit sends the exit to the server. The local lease is patched only
// from the server's response; on any failure the collections stay exactly
// as they were and the form remains valid for a retry.
func (s *Service) Submit(ctx context.Context, exit *Exit) (*Result, error) {
	if exit.ExitDate.IsZero() {
		return nil, ErrExitDateRequired
	}

	if exit.RestitutionAmount < 0 {
		return nil, ErrNegativeAmount
	}

	req := api.ExitRequest{
		Motif:              exit.Motif,
		ExitDate:           &exit.ExitDate,
		InspectionNote:     exit.InspectionNote,
		RestitutionAmount:  &exit.RestitutionAmount,
		RestitutionComment: exit.RestitutionComment,
	}

	resp, err := s.gw.SubmitLeaseExit(ctx, exit.LeaseID, req, exit.key)
	if err != nil {
		return nil, err
	}

	// The server owns the final end date and status; never write the
	// form's own values into the collection.
	err = s.snap.Leases.Patch(exit.LeaseID, func(l *domain.Lease) {
		l.EndDate = resp.Lease.EndDate
		l.Status = resp.Lease.Status
	})
	if err != nil && !errors.Is(err, collections.ErrNotFound) {
		return nil, err
	}

	return &Result{
		Message:       resp.Message,
		UnpaidWarning: resp.UnpaidWarning,
		RestitutionID: resp.RestitutionID,
		InspectionID:  resp.InspectionID,
	}, nil
}
