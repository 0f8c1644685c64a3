// Package consumer derives a per-person view of the consent ledger. The rut
// is the join key: every grant carrying the same rut folds into one profile.
package consumer

import (
	"context"
	"strconv"
	"strings"

	"rdc30/internal/consent"
	"rdc30/pkg/platform/sentinel"
)

// Profile groups a person's grants. It is a derived view, rebuilt from the
// ledger, never written independently.
type Profile struct {
	PersonID   string
	Rut        string
	Name       string
	Email      string
	ConsentIDs []string
}

// Ledger is the consent surface the view reads.
type Ledger interface {
	List(ctx context.Context, filter consent.Filter) ([]consent.Record, error)
}

// View answers person-centric lookups against the ledger.
type View struct {
	ledger Ledger
}

func NewView(ledger Ledger) *View {
	return &View{ledger: ledger}
}

// List builds all profiles, grouping grants by rut in ledger list order
// (grant date descending). PersonID is positional within the build.
func (v *View) List(ctx context.Context) ([]Profile, error) {
	records, err := v.ledger.List(ctx, consent.Filter{})
	if err != nil {
		return nil, err
	}
	return groupByRut(records), nil
}

// GetByRut returns the profile for one rut, or ErrNotFound. PersonID stays
// consistent with List because the grouping runs over the full ledger.
func (v *View) GetByRut(ctx context.Context, rut string) (Profile, error) {
	profiles, err := v.List(ctx)
	if err != nil {
		return Profile{}, err
	}
	for _, p := range profiles {
		if p.Rut == rut {
			return p, nil
		}
	}
	return Profile{}, sentinel.ErrNotFound
}

// GetByEmail returns the first profile whose email matches,
// case-insensitively, or ErrNotFound.
func (v *View) GetByEmail(ctx context.Context, email string) (Profile, error) {
	profiles, err := v.List(ctx)
	if err != nil {
		return Profile{}, err
	}
	needle := strings.ToLower(email)
	for _, p := range profiles {
		if strings.ToLower(p.Email) == needle {
			return p, nil
		}
	}
	return Profile{}, sentinel.ErrNotFound
}

func groupByRut(records []consent.Record) []Profile {
	index := make(map[string]int)
	var profiles []Profile
	for _, r := range records {
		i, ok := index[r.Person.Rut]
		if !ok {
			i = len(profiles)
			index[r.Person.Rut] = i
			profiles = append(profiles, Profile{
				PersonID: profilePersonID(i),
				Rut:      r.Person.Rut,
				Name:     r.Person.Name,
				Email:    r.Person.Email,
			})
		}
		profiles[i].ConsentIDs = append(profiles[i].ConsentIDs, r.ID)
	}
	return profiles
}

func profilePersonID(i int) string {
	return "person-" + strconv.Itoa(i+1)
}
