package consent

import "strings"

// Filter narrows List results. All dimensions are optional and AND-combined;
// the search term is OR-combined across the identity fields it inspects.
type Filter struct {
	// Search matches case-insensitive substrings of name, rut, email,
	// IDInterno and IDExterno.
	Search string

	// Membership filters: empty means "any".
	States      []State
	Medios      []Medio
	Finalidades []Finalidad
	Objetivos   []Objetivo

	// Exact-match filters.
	Sucursal     string
	Ubicacion    string
	RutEjecutivo string

	// ProductID matches the product tag stamped into Meta at capture time.
	ProductID string

	// Inclusive range over OtorgamientoFecha. The fixed-width YYYYMMDD
	// format sorts identically to chronological order, so plain string
	// comparison is correct here.
	FromDate string
	ToDate   string
}

// matches reports whether a record (with state already derived) passes the
// filter.
func (f Filter) matches(r Record) bool {
	if f.Search != "" && !matchesSearch(r, f.Search) {
		return false
	}
	if len(f.States) > 0 && !containsState(f.States, r.State) {
		return false
	}
	if len(f.Medios) > 0 && !containsMedio(f.Medios, r.Medio) {
		return false
	}
	if len(f.Finalidades) > 0 && !containsFinalidad(f.Finalidades, r.Finalidad) {
		return false
	}
	if len(f.Objetivos) > 0 && !containsObjetivo(f.Objetivos, r.Objetivo) {
		return false
	}
	if f.Sucursal != "" && r.Sucursal != f.Sucursal {
		return false
	}
	if f.Ubicacion != "" && r.Ubicacion != f.Ubicacion {
		return false
	}
	if f.RutEjecutivo != "" && r.RutEjecutivo != f.RutEjecutivo {
		return false
	}
	if f.ProductID != "" && r.Meta["productId"] != f.ProductID {
		return false
	}
	if f.FromDate != "" && r.Timestamps.OtorgamientoFecha < f.FromDate {
		return false
	}
	if f.ToDate != "" && r.Timestamps.OtorgamientoFecha > f.ToDate {
		return false
	}
	return true
}

func matchesSearch(r Record, term string) bool {
	needle := strings.ToLower(term)
	for _, hay := range []string{r.Person.Name, r.Person.Rut, r.Person.Email, r.IDInterno, r.IDExterno} {
		if hay != "" && strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

func containsState(set []State, v State) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsMedio(set []Medio, v Medio) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsFinalidad(set []Finalidad, v Finalidad) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsObjetivo(set []Objetivo, v Objetivo) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
