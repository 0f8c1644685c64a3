package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rdc30/internal/consent"
	"rdc30/pkg/platform/sentinel"
	"rdc30/pkg/rdc"
)

var builderNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type ReportBuilderSuite struct {
	suite.Suite
	ledger  *consent.InMemoryStore
	builder *Builder
}

func TestReportBuilderSuite(t *testing.T) {
	suite.Run(t, new(ReportBuilderSuite))
}

func (s *ReportBuilderSuite) SetupTest() {
	s.ledger = consent.NewInMemoryStore(consent.WithClock(func() time.Time { return builderNow }))
	s.builder = NewBuilder(s.ledger, WithClock(func() time.Time { return builderNow }))
}

func (s *ReportBuilderSuite) seedConsent(granted string, expiresIn time.Duration, productID string, revoked bool) consent.Record {
	exp := builderNow.Add(expiresIn)
	r, err := s.ledger.Create(context.Background(), consent.Record{
		Person: consent.Person{Rut: "11111111-1", Name: "Ana Soto", Email: "ana@correo.cl"},
		Medio:  consent.MedioElectronic,
		Timestamps: consent.RDC30Timestamps{
			OtorgamientoFecha: granted,
			OtorgamientoHora:  "090000",
			FinFecha:          rdc.FormatDate(exp),
			FinHora:           rdc.FormatTime(exp),
		},
		Meta: map[string]string{"productId": productID},
	})
	s.Require().NoError(err)
	if revoked {
		r, err = s.ledger.Revoke(context.Background(), r.ID, "1")
		s.Require().NoError(err)
	}
	return r
}

func (s *ReportBuilderSuite) TestGenerateFixedRows() {
	s.seedConsent("20240310", 365*24*time.Hour, "prod-a", false) // active
	s.seedConsent("20240311", 10*24*time.Hour, "prod-a", false)  // expiring soon
	s.seedConsent("20240312", -time.Hour, "prod-a", false)       // expired
	s.seedConsent("20240313", 365*24*time.Hour, "prod-a", true)  // revoked

	r, err := s.builder.Generate(context.Background(), Params{From: "20240301", To: "20240331"}, "7")
	s.Require().NoError(err)

	s.Equal(TypeRDC30, r.Type)
	s.Equal("7", r.GeneratedBy)
	s.Equal(builderNow, r.GeneratedAt)
	s.Require().Len(r.Rows, 6)
	s.Equal(Row{Metric: "Total Consentimientos", Value: "4"}, r.Rows[0])
	s.Equal(Row{Metric: "Consentimientos Activos", Value: "1"}, r.Rows[1])
	s.Equal(Row{Metric: "Consentimientos por Vencer", Value: "1"}, r.Rows[2])
	s.Equal(Row{Metric: "Consentimientos Vencidos", Value: "1"}, r.Rows[3])
	s.Equal(Row{Metric: "Consentimientos Revocados", Value: "1"}, r.Rows[4])
	s.Equal(Row{Metric: "Tasa de Revocación", Value: "25.00%"}, r.Rows[5])
}

func (s *ReportBuilderSuite) TestGenerateAggregatesTheWindowOnly() {
	s.seedConsent("20240115", 365*24*time.Hour, "prod-a", false)
	s.seedConsent("20240310", 365*24*time.Hour, "prod-a", true)
	s.seedConsent("20240320", 365*24*time.Hour, "prod-a", false)

	r, err := s.builder.Generate(context.Background(), Params{From: "20240301", To: "20240331"}, "7")
	s.Require().NoError(err)

	// The January grant is outside the window, so the revocation rate is
	// computed over the two March records.
	s.Equal(Row{Metric: "Total Consentimientos", Value: "2"}, r.Rows[0])
	s.Equal(Row{Metric: "Tasa de Revocación", Value: "50.00%"}, r.Rows[5])
}

func (s *ReportBuilderSuite) TestGenerateFiltersByProduct() {
	s.seedConsent("20240310", 365*24*time.Hour, "prod-a", false)
	s.seedConsent("20240311", 365*24*time.Hour, "prod-b", false)

	r, err := s.builder.Generate(context.Background(), Params{ProductID: "prod-b"}, "7")
	s.Require().NoError(err)
	s.Equal(Row{Metric: "Total Consentimientos", Value: "1"}, r.Rows[0])
}

func (s *ReportBuilderSuite) TestGenerateEmptyLedger() {
	r, err := s.builder.Generate(context.Background(), Params{}, "7")
	s.Require().NoError(err)
	s.Equal(Row{Metric: "Total Consentimientos", Value: "0"}, r.Rows[0])
	s.Equal(Row{Metric: "Tasa de Revocación", Value: "0.00%"}, r.Rows[5])
}

func (s *ReportBuilderSuite) TestRerunProducesIndependentSnapshots() {
	s.seedConsent("20240310", 365*24*time.Hour, "prod-a", false)

	first, err := s.builder.Generate(context.Background(), Params{}, "7")
	s.Require().NoError(err)
	second, err := s.builder.Generate(context.Background(), Params{}, "7")
	s.Require().NoError(err)

	s.NotEqual(first.ID, second.ID)

	all, err := s.builder.List(context.Background(), Filter{})
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *ReportBuilderSuite) TestListFiltersAndGetByID() {
	_, err := s.builder.Generate(context.Background(), Params{}, "7")
	s.Require().NoError(err)
	mine, err := s.builder.Generate(context.Background(), Params{}, "9")
	s.Require().NoError(err)

	byUser, err := s.builder.List(context.Background(), Filter{GeneratedBy: "9"})
	s.Require().NoError(err)
	s.Require().Len(byUser, 1)
	s.Equal(mine.ID, byUser[0].ID)

	got, err := s.builder.GetByID(context.Background(), mine.ID)
	s.Require().NoError(err)
	s.Equal(mine.Rows, got.Rows)

	_, err = s.builder.GetByID(context.Background(), "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
