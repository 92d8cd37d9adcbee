package syncing

import (
	"context"
	"fmt"

	"github.com/vfg2006/ads-report-sync/infrastructure/integrator/adplatform/adclient"
	"github.com/vfg2006/ads-report-sync/internal/domain"
	"github.com/vfg2006/ads-report-sync/internal/normalizing"
)

// runScope é o que todas as contas de uma execução compartilham
type runScope struct {
	reportType domain.ReportType
	window     domain.ReportWindow
	fetchedAt  string
}

// pipeline produz as linhas canônicas de uma única conta
type pipeline func(ctx context.Context, cred domain.AccountCredential, scope runScope) (normalizing.Result, error)

type reportSpec struct {
	level     domain.ReportLevel
	breakdown domain.Breakdown
}

var reportSpecs = map[domain.ReportType]reportSpec{
	domain.ReportTypeAd: {
		level:     domain.ReportLevelAd,
		breakdown: domain.Breakdown{Time: domain.TimeBreakdownDay},
	},
	domain.ReportTypeGender: {
		level:     domain.ReportLevelAdGroup,
		breakdown: domain.Breakdown{Time: domain.TimeBreakdownDay, Attribute: domain.AttributeGender},
	},
	domain.ReportTypeAge: {
		level:     domain.ReportLevelAdGroup,
		breakdown: domain.Breakdown{Time: domain.TimeBreakdownDay, Attribute: domain.AttributeAge},
	},
	domain.ReportTypeDevice: {
		level:     domain.ReportLevelAdGroup,
		breakdown: domain.Breakdown{Time: domain.TimeBreakdownDay, Attribute: domain.AttributeOS},
	},
}

type entityLister func(ctx context.Context, client adclient.Client) ([]adclient.Entity, error)

var entityListers = map[domain.ReportType]entityLister{
	domain.ReportTypeCampaign: func(ctx context.Context, client adclient.Client) ([]adclient.Entity, error) {
		return client.ListCampaigns(ctx)
	},
	domain.ReportTypeAdGroup: func(ctx context.Context, client adclient.Client) ([]adclient.Entity, error) {
		return client.ListAdGroups(ctx, "")
	},
	domain.ReportTypeMedia: func(ctx context.Context, client adclient.Client) ([]adclient.Entity, error) {
		return client.ListMedia(ctx)
	},
}

// pipelineFor devolve o cabeçalho da tabela e a função que gera as linhas de cada conta
func (s *Service) pipelineFor(reportType domain.ReportType) ([]string, pipeline, error) {
	if reportType == domain.ReportTypeAccount {
		return normalizing.AccountHeader, accountPipeline, nil
	}

	schema, ok := normalizing.SchemaFor(reportType)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrUnknownReportType, reportType)
	}

	if list, ok := entityListers[reportType]; ok {
		return schema.Header(), s.entityPipeline(schema, list), nil
	}

	if spec, ok := reportSpecs[reportType]; ok {
		return schema.Header(), s.reportPipeline(schema, spec), nil
	}

	return nil, nil, fmt.Errorf("%w: %s", domain.ErrUnknownReportType, reportType)
}

// accountPipeline não consulta a API: a tabela de contas vem do próprio registro
func accountPipeline(_ context.Context, cred domain.AccountCredential, scope runScope) (normalizing.Result, error) {
	return normalizing.Result{
		Header:    normalizing.AccountHeader,
		Rows:      []domain.CanonicalRow{{cred.AccountID, cred.AccountName, scope.fetchedAt}},
		Unmatched: []string{},
	}, nil
}

func (s *Service) entityPipeline(schema normalizing.Schema, list entityLister) pipeline {
	return func(ctx context.Context, cred domain.AccountCredential, _ runScope) (normalizing.Result, error) {
		entities, err := list(ctx, s.newClient(cred))
		if err != nil {
			return normalizing.Result{}, err
		}

		return normalizing.Normalize(schema, normalizing.FlattenEntities(entities), cred), nil
	}
}

func (s *Service) reportPipeline(schema normalizing.Schema, spec reportSpec) pipeline {
	return func(ctx context.Context, cred domain.AccountCredential, scope runScope) (normalizing.Result, error) {
		table, err := s.reports.CreateAndDownloadReport(ctx, s.newClient(cred), spec.level, scope.window, spec.breakdown)
		if err != nil {
			return normalizing.Result{}, err
		}

		return normalizing.Normalize(schema, table, cred), nil
	}
}
