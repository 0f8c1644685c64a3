// Package seed generates a deterministic bootstrap data set across all
// stores. Generation is a pure function of (seed, counts, reference instant):
// the same inputs always produce deep-equal record sets, foreign keys
// included. That reproducibility is load-bearing for tests and for
// cross-store references, so the package owns the generation order.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"rdc30/internal/alert"
	"rdc30/internal/audit"
	"rdc30/internal/consent"
	"rdc30/internal/identity"
	"rdc30/internal/job"
	"rdc30/internal/report"
	"rdc30/internal/terms"
	"rdc30/internal/widget"
	"rdc30/pkg/rdc"
)

// Stores bundles every store the seeder fills, in dependency order. Reports
// is optional; when nil the report step is skipped.
type Stores struct {
	Users    *identity.InMemoryStore
	Terms    *terms.InMemoryStore
	Widgets  *widget.InMemoryStore
	Consents *consent.InMemoryStore
	Audit    *audit.InMemoryStore
	Jobs     *job.InMemoryStore
	Alerts   *alert.InMemoryStore
	Reports  *report.Builder
}

// Counts sizes the generated data set. Zero fields fall back to defaults.
type Counts struct {
	Users    int
	Consents int
	Audit    int
	Jobs     int
}

func (c Counts) withDefaults() Counts {
	if c.Users == 0 {
		c.Users = 50
	}
	if c.Consents == 0 {
		c.Consents = 300
	}
	if c.Audit == 0 {
		c.Audit = 100
	}
	if c.Jobs == 0 {
		c.Jobs = 30
	}
	return c
}

// products of the institution. Each gets a versioned terms document chain
// and at least one capture widget.
var products = []string{
	"cuenta-corriente",
	"cuenta-vista",
	"tarjeta-credito",
	"credito-consumo",
	"credito-hipotecario",
}

var sucursales = []string{
	"Sucursal Centro",
	"Sucursal Providencia",
	"Sucursal Las Condes",
	"Sucursal Vitacura",
	"Sucursal Ñuñoa",
}

var ubicaciones = []string{"Santiago", "Valparaíso", "Concepción", "La Serena", "Temuco"}

var brandColors = []string{"#0066CC", "#00A651", "#E31837", "#FF6B00", "#6B4C9A"}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
}

// Seeder generates records from an explicit pseudo-random source and a fixed
// reference instant. Every instant it stamps derives from that reference, so
// generated records don't depend on when the process started; store-stamped
// transition instants (PublishedAt, CompletedAt) follow the store clocks.
type Seeder struct {
	rng               *rand.Rand
	now               time.Time
	codigoInstitucion string
}

// New builds a Seeder. The reference instant anchors every generated date;
// pass a fixed one for reproducible runs.
func New(seedNum int64, now time.Time, codigoInstitucion string) *Seeder {
	return &Seeder{
		rng:               rand.New(rand.NewSource(seedNum)),
		now:               now.UTC(),
		codigoInstitucion: codigoInstitucion,
	}
}

// All resets and fills every store in dependency order. Seeding the consent
// ledger against empty terms or widget catalogs fails outright rather than
// proceeding with zero records.
func (s *Seeder) All(ctx context.Context, stores Stores, counts Counts) error {
	counts = counts.withDefaults()

	if err := s.Users(ctx, stores.Users, counts.Users); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := s.Terms(ctx, stores.Terms); err != nil {
		return fmt.Errorf("seed terms: %w", err)
	}
	if err := s.Widgets(ctx, stores.Terms, stores.Widgets); err != nil {
		return fmt.Errorf("seed widgets: %w", err)
	}
	if err := s.Consents(ctx, stores, counts.Consents); err != nil {
		return fmt.Errorf("seed consents: %w", err)
	}
	if err := s.AuditTrail(ctx, stores.Audit, counts.Audit); err != nil {
		return fmt.Errorf("seed audit trail: %w", err)
	}
	if err := s.Jobs(ctx, stores.Jobs, counts.Jobs); err != nil {
		return fmt.Errorf("seed jobs: %w", err)
	}
	if err := s.Alerts(ctx, stores); err != nil {
		return fmt.Errorf("seed alerts: %w", err)
	}
	if stores.Reports != nil {
		if err := s.Reports(ctx, stores.Reports); err != nil {
			return fmt.Errorf("seed reports: %w", err)
		}
	}
	return nil
}

// Users seeds the three fixed operators plus generated staff.
func (s *Seeder) Users(ctx context.Context, store *identity.InMemoryStore, count int) error {
	store.Reset()

	fixed := []identity.User{
		{ID: "1", Name: "Admin Usuario", Email: "admin@banco.cl", Role: identity.RoleAdmin},
		{ID: "2", Name: "Operador Usuario", Email: "ops@banco.cl", Role: identity.RoleOps},
		{ID: "3", Name: "Mandatario Usuario", Email: "mandatario@banco.cl", Role: identity.RoleMandatary},
	}
	roles := []identity.Role{identity.RoleAdmin, identity.RoleOps, identity.RoleMandatary}
	for i := range fixed {
		login := s.pastInstant(7)
		fixed[i].LastLoginAt = &login
		if _, err := store.Create(ctx, fixed[i]); err != nil {
			return err
		}
	}
	for i := len(fixed) + 1; i <= count; i++ {
		u := identity.User{
			ID:    strconv.Itoa(i),
			Name:  s.personName(),
			Email: fmt.Sprintf("user%d@banco.cl", i),
			Role:  roles[s.rng.Intn(len(roles))],
		}
		if s.rng.Float64() < 0.7 {
			login := s.pastInstant(30)
			u.LastLoginAt = &login
		}
		if _, err := store.Create(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

// Terms seeds 2-4 versions per product and publishes the highest-numbered
// one, which keeps the single-published-per-product invariant by
// construction.
func (s *Seeder) Terms(ctx context.Context, store *terms.InMemoryStore) error {
	store.Reset()

	for _, productID := range products {
		versionCount := 2 + s.rng.Intn(3)
		for v := 1; v <= versionCount; v++ {
			tc := terms.Version{
				ID:        fmt.Sprintf("tc-%s-v%d", productID, v),
				ProductID: productID,
				Version:   fmt.Sprintf("%d.0", v),
				Title:     fmt.Sprintf("Términos y Condiciones %s v%d.0", productID, v),
				Content:   s.loremParagraph(),
				CreatedBy: strconv.Itoa(1 + s.rng.Intn(2)),
				CreatedAt: s.pastInstant(365),
			}
			created, err := store.Create(ctx, tc)
			if err != nil {
				return err
			}
			if v == versionCount {
				if _, err := store.Publish(ctx, created.ID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Widgets seeds 1-2 capture widgets per product, each bound to the product's
// published terms version.
func (s *Seeder) Widgets(ctx context.Context, catalog *terms.InMemoryStore, store *widget.InMemoryStore) error {
	store.Reset()

	for i, productID := range products {
		widgetCount := 1 + s.rng.Intn(2)
		for w := 1; w <= widgetCount; w++ {
			published, err := catalog.GetPublishedByProduct(ctx, productID)
			if err != nil {
				return fmt.Errorf("no published terms for product %s: %w", productID, err)
			}
			_, err = store.Create(ctx, widget.Widget{
				ID:        fmt.Sprintf("widget-%s-%d", productID, w),
				ProductID: productID,
				Name:      fmt.Sprintf("Widget %s %d", productID, w),
				Brand: widget.Brand{
					LogoURL:      fmt.Sprintf("https://cdn.banco.cl/logos/%s.png", productID),
					PrimaryColor: brandColors[i%len(brandColors)],
				},
				Texts: widget.Texts{
					Title:    fmt.Sprintf("Autorización de %s", productID),
					Subtitle: s.loremSentence(),
				},
				ActiveTcVersionID: published.ID,
				IsActive:          true,
				CreatedAt:         s.pastInstant(180),
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Consents seeds the ledger, referencing seeded widgets and their published
// terms. Roughly a tenth of the records come out revoked; expiries spread
// over the coming year so the EXPIRING_SOON window is populated.
func (s *Seeder) Consents(ctx context.Context, stores Stores, count int) error {
	stores.Consents.Reset()

	widgets, err := stores.Widgets.List(ctx, widget.Filter{})
	if err != nil {
		return err
	}
	published, err := stores.Terms.List(ctx, terms.Filter{Status: terms.StatusPublished})
	if err != nil {
		return err
	}
	if len(widgets) == 0 || len(published) == 0 {
		return fmt.Errorf("consent seeding requires seeded widgets and published terms: %w", errEmptyCatalog)
	}

	medios := []consent.Medio{consent.MedioElectronic, consent.MedioVerbal, consent.MedioWritten}
	finalidades := []consent.Finalidad{consent.FinalidadRiskCommercial, consent.FinalidadRiskCredit}
	objetivos := []consent.Objetivo{
		consent.ObjetivoCreditoComercial,
		consent.ObjetivoConsumo,
		consent.ObjetivoVivienda,
		consent.ObjetivoFinanciero,
		consent.ObjetivoInstrumentoDeuda,
		consent.ObjetivoContingente,
		consent.ObjetivoLineaLibre,
	}

	for i := 1; i <= count; i++ {
		w := widgets[s.rng.Intn(len(widgets))]
		tc := findVersion(published, w.ActiveTcVersionID)
		if tc == nil {
			tc = &published[s.rng.Intn(len(published))]
		}

		grantedAt := s.pastInstant(180)
		expiresAt := s.now.Add(time.Duration(s.rng.Intn(336)-31) * 24 * time.Hour)

		medio := medios[s.rng.Intn(len(medios))]
		r := consent.Record{
			ID:     fmt.Sprintf("consent-%d", i),
			Person: s.person(),

			CodigoInstitucion: s.codigoInstitucion,
			Medio:             medio,
			Finalidad:         finalidades[s.rng.Intn(len(finalidades))],
			Objetivo:          objetivos[s.rng.Intn(len(objetivos))],

			Ubicacion: ubicaciones[s.rng.Intn(len(ubicaciones))],
			IP:        s.ipv4(),
			Navegador: userAgents[s.rng.Intn(len(userAgents))],

			VersionTC:   tc.Version,
			WidgetID:    w.ID,
			TcVersionID: tc.ID,

			Timestamps: consent.RDC30Timestamps{
				OtorgamientoFecha: rdc.FormatDate(grantedAt),
				OtorgamientoHora:  rdc.FormatTime(grantedAt),
				FinFecha:          rdc.FormatDate(expiresAt),
				FinHora:           rdc.FormatTime(expiresAt),
			},

			Meta: map[string]string{
				"productId": w.ProductID,
				"channel":   channelFor(medio),
			},
			CreatedBy: strconv.Itoa(1 + s.rng.Intn(3)),
		}

		if s.rng.Intn(100) < 70 {
			r.IDExterno = fmt.Sprintf("EXT-%s", s.alphanum(10))
		}
		if medio == consent.MedioVerbal || medio == consent.MedioWritten {
			r.RutEjecutivo = s.rut()
		}
		if medio == consent.MedioWritten {
			r.Sucursal = sucursales[s.rng.Intn(len(sucursales))]
			r.Meta["sucursal"] = r.Sucursal
		}
		if s.rng.Intn(100) < 10 {
			revokedAt := grantedAt.Add(time.Duration(1+s.rng.Intn(90)) * 24 * time.Hour)
			r.Timestamps.RevokedAt = &revokedAt
			r.LastUpdatedBy = strconv.Itoa(1 + s.rng.Intn(2))
		}

		if _, err := stores.Consents.Create(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// AuditTrail seeds historical events across all resource families.
func (s *Seeder) AuditTrail(ctx context.Context, store *audit.InMemoryStore, count int) error {
	store.Reset()

	actions := []audit.Action{
		audit.ActionCreate, audit.ActionUpdate, audit.ActionDelete, audit.ActionRevoke,
		audit.ActionExport, audit.ActionImport, audit.ActionLogin, audit.ActionLogout,
	}
	resourceTypes := []audit.ResourceType{
		audit.ResourceConsent, audit.ResourceTC, audit.ResourceWidget, audit.ResourceUser,
		audit.ResourceJob, audit.ResourceAlert, audit.ResourceReport,
	}

	for i := 1; i <= count; i++ {
		action := actions[s.rng.Intn(len(actions))]
		resourceType := resourceTypes[s.rng.Intn(len(resourceTypes))]
		e := audit.Event{
			ID:           fmt.Sprintf("audit-%d", i),
			At:           s.pastInstant(90),
			ActorUserID:  strconv.Itoa(1 + s.rng.Intn(3)),
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   fmt.Sprintf("%s-%d", resourceType, 1+s.rng.Intn(100)),
		}
		if action == audit.ActionUpdate {
			e.Payload = map[string]any{"field": "estado", "reason": "seeded"}
		}
		if _, err := store.Append(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// Jobs seeds task histories, driving each through its state machine so the
// transitions stay legal.
func (s *Seeder) Jobs(ctx context.Context, store *job.InMemoryStore, count int) error {
	store.Reset()

	types := []job.Type{job.TypeImport, job.TypeExport}
	formats := []job.Format{job.FormatCSV, job.FormatXLSX, job.FormatJSON}
	statuses := []job.Status{job.StatusQueued, job.StatusRunning, job.StatusSuccess, job.StatusError}

	for i := 1; i <= count; i++ {
		target := statuses[s.rng.Intn(len(statuses))]
		total := 10 + s.rng.Intn(991)
		created, err := store.Create(ctx, job.Job{
			ID:           fmt.Sprintf("job-%d", i),
			Type:         types[s.rng.Intn(len(types))],
			Format:       formats[s.rng.Intn(len(formats))],
			CreatedAt:    s.pastInstant(60),
			CreatedBy:    strconv.Itoa(1 + s.rng.Intn(2)),
			RecordsTotal: total,
		})
		if err != nil {
			return err
		}
		if target == job.StatusQueued {
			continue
		}
		processed := s.rng.Intn(total + 1)
		if _, err := store.UpdateStatus(ctx, created.ID, job.StatusRunning, job.StatusUpdate{RecordsProcessed: processed}); err != nil {
			return err
		}
		switch target {
		case job.StatusSuccess:
			_, err = store.UpdateStatus(ctx, created.ID, job.StatusSuccess, job.StatusUpdate{RecordsProcessed: total})
		case job.StatusError:
			_, err = store.UpdateStatus(ctx, created.ID, job.StatusError, job.StatusUpdate{
				ErrorMessage:     "formato de archivo inválido en la fila " + strconv.Itoa(1+s.rng.Intn(total)),
				RecordsProcessed: processed,
			})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Alerts runs the engine once over the seeded ledger and job tracker so the
// alert set always references real seeded records.
func (s *Seeder) Alerts(ctx context.Context, stores Stores) error {
	stores.Alerts.Reset()

	engine := alert.NewEngine(stores.Consents, stores.Jobs, stores.Alerts)
	if _, err := engine.Scan(ctx); err != nil {
		return err
	}
	return nil
}

// Reports generates the prior-month regulatory snapshot over the seeded
// ledger, attributed to the fixed admin operator.
func (s *Seeder) Reports(ctx context.Context, builder *report.Builder) error {
	builder.Reset()

	monthAgo := s.now.AddDate(0, -1, 0)
	_, err := builder.Generate(ctx, report.Params{
		From: rdc.FormatDate(monthAgo),
		To:   rdc.FormatDate(s.now),
	}, "1")
	return err
}

var errEmptyCatalog = errors.New("empty catalog")

func findVersion(versions []terms.Version, id string) *terms.Version {
	for i := range versions {
		if versions[i].ID == id {
			return &versions[i]
		}
	}
	return nil
}

func channelFor(m consent.Medio) string {
	switch m {
	case consent.MedioElectronic:
		return "WEB"
	case consent.MedioVerbal:
		return "CALL_CENTER"
	default:
		return "BRANCH"
	}
}

// pastInstant picks an instant within the given number of days before the
// reference instant.
func (s *Seeder) pastInstant(days int) time.Time {
	return s.now.Add(-time.Duration(s.rng.Int63n(int64(days) * int64(24*time.Hour))))
}

var firstNames = []string{
	"Sofía", "Mateo", "Valentina", "Benjamín", "Isidora", "Agustín",
	"Florencia", "Vicente", "Antonia", "Joaquín", "Camila", "Diego",
}

var lastNames = []string{
	"González", "Muñoz", "Rojas", "Díaz", "Pérez", "Soto",
	"Contreras", "Silva", "Martínez", "Sepúlveda", "Morales", "Fuentes",
}

func (s *Seeder) personName() string {
	return firstNames[s.rng.Intn(len(firstNames))] + " " + lastNames[s.rng.Intn(len(lastNames))]
}

func (s *Seeder) person() consent.Person {
	name := s.personName()
	return consent.Person{
		Rut:   s.rut(),
		Name:  name,
		Email: fmt.Sprintf("cliente%d@correo.cl", 1+s.rng.Intn(1000000)),
	}
}

// rut generates a plausible Chilean RUT. Format only; no checksum.
func (s *Seeder) rut() string {
	return fmt.Sprintf("%d-%d", 5000000+s.rng.Intn(20000001), s.rng.Intn(10))
}

func (s *Seeder) ipv4() string {
	return fmt.Sprintf("%d.%d.%d.%d", 1+s.rng.Intn(223), s.rng.Intn(256), s.rng.Intn(256), 1+s.rng.Intn(254))
}

const alphanumChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func (s *Seeder) alphanum(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanumChars[s.rng.Intn(len(alphanumChars))]
	}
	return string(b)
}

var loremWords = []string{
	"autorización", "tratamiento", "datos", "personales", "cliente",
	"institución", "evaluación", "riesgo", "crediticio", "vigencia",
	"revocación", "normativa", "registro", "deudores", "consolidado",
}

func (s *Seeder) loremSentence() string {
	n := 6 + s.rng.Intn(6)
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += " "
		}
		out += loremWords[s.rng.Intn(len(loremWords))]
	}
	return out + "."
}

func (s *Seeder) loremParagraph() string {
	out := ""
	for i := 0; i < 5; i++ {
		if i > 0 {
			out += " "
		}
		out += s.loremSentence()
	}
	return out
}
