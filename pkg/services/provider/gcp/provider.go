package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/finops-tools/cloudopt/pkg/models/domain"
	"github.com/finops-tools/cloudopt/pkg/services/provider"
	"github.com/finops-tools/cloudopt/pkg/store/pricing"
	"github.com/rs/zerolog"
	"google.golang.org/api/compute/v1"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Rough monthly cost estimates in USD; varies by zone.
var machinePricing = pricing.NewStaticStore(map[string]float64{
	"n1-standard-1": 25.0,
	"n1-standard-2": 50.0,
	"n1-standard-4": 100.0,
	"n1-standard-8": 200.0,
	"e2-micro":      7.0,
	"e2-small":      14.0,
	"e2-medium":     28.0,
}, defaultMachineMonthlyCost)

const defaultMachineMonthlyCost = 30.0

type gcpProvider struct {
	projectID      string
	billingAccount string
	billingDataset string
	bqClient       *bigquery.Client
	computeClient  *compute.Service
}

// Factory creates a GCP provider from a profile config file.
func Factory(ctx context.Context, configPath string) (provider.Provider, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	bqClient, err := bigquery.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery client: %w", err)
	}

	computeClient, err := compute.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Compute client: %w", err)
	}

	return &gcpProvider{
		projectID:      cfg.ProjectID,
		billingAccount: cfg.BillingAccount,
		billingDataset: cfg.BillingDataset,
		bqClient:       bqClient,
		computeClient:  computeClient,
	}, nil
}

func (p *gcpProvider) Name() string { return "gcp" }

func (p *gcpProvider) GetCostData(ctx context.Context, start, end time.Time) (domain.CostData, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Time("start", start).
		Time("end", end).
		Str("project", p.projectID).
		Msg("fetching GCP cost data")

	costsByService, costsByRegion, totalCost, err := p.queryBillingExport(ctx, start, end)
	if err != nil {
		return domain.CostData{}, err
	}

	resources, err := p.computeInstances(ctx)
	if err != nil {
		return domain.CostData{}, err
	}

	return domain.CostData{
		PeriodStart:    start,
		PeriodEnd:      end,
		TotalCost:      totalCost,
		CostsByService: costsByService,
		CostsByRegion:  costsByRegion,
		Resources:      resources,
	}, nil
}

// queryBillingExport aggregates the standard billing export table.
// The table name format is project.dataset.gcp_billing_export_v1_<ACCOUNT>,
// which requires billing export to BigQuery to be enabled.
func (p *gcpProvider) queryBillingExport(ctx context.Context, start, end time.Time) (map[string]float64, map[string]float64, float64, error) {
	accountID := strings.ReplaceAll(p.billingAccount, "billingAccounts/", "")
	accountID = strings.ReplaceAll(accountID, "-", "_")

	query := fmt.Sprintf(`
		SELECT
			service.description AS service_name,
			IFNULL(location.region, 'N/A') AS region,
			SUM(cost) AS total_cost
		FROM %s.%s.gcp_billing_export_v1_%s
		WHERE
			project.id = @projectID
			AND DATE(usage_start_time) >= @startDate
			AND DATE(usage_start_time) < @endDate
		GROUP BY service_name, region
		ORDER BY total_cost DESC
	`, p.projectID, p.billingDataset, accountID)

	q := p.bqClient.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "projectID", Value: p.projectID},
		{Name: "startDate", Value: start.Format("2006-01-02")},
		{Name: "endDate", Value: end.Format("2006-01-02")},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to execute BigQuery query: %w", err)
	}

	costsByService := map[string]float64{}
	costsByRegion := map[string]float64{}
	var totalCost float64

	for {
		var row struct {
			ServiceName string  `bigquery:"service_name"`
			Region      string  `bigquery:"region"`
			TotalCost   float64 `bigquery:"total_cost"`
		}

		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, nil, 0, fmt.Errorf("failed to read BigQuery row: %w", err)
		}

		costsByService[row.ServiceName] += row.TotalCost
		costsByRegion[row.Region] += row.TotalCost
		totalCost += row.TotalCost
	}

	return costsByService, costsByRegion, totalCost, nil
}

func (p *gcpProvider) computeInstances(ctx context.Context) ([]domain.Resource, error) {
	logger := zerolog.Ctx(ctx)

	zonesResp, err := p.computeClient.Zones.List(p.projectID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}

	var resources []domain.Resource
	for _, zone := range zonesResp.Items {
		instResp, err := p.computeClient.Instances.List(p.projectID, zone.Name).Context(ctx).Do()
		if err != nil {
			logger.Debug().Err(err).Str("zone", zone.Name).Msg("skipping zone")
			continue
		}

		for _, instance := range instResp.Items {
			machineType := instance.MachineType
			if idx := strings.LastIndex(machineType, "/"); idx >= 0 {
				machineType = machineType[idx+1:]
			}

			labels := map[string]string{}
			for k, v := range instance.Labels {
				labels[k] = v
			}

			resources = append(resources, domain.Resource{
				ID:          fmt.Sprintf("%s/%s", zone.Name, instance.Name),
				Type:        domain.ResourceManagedCompute,
				Region:      zone.Name,
				MonthlyCost: machineMonthlyCost(machineType),
				Tags:        labels,
				Metadata: map[string]string{
					"machine_type": machineType,
					"name":         instance.Name,
					"status":       strings.ToLower(instance.Status),
					"zone":         zone.Name,
				},
			})
		}
	}

	return resources, nil
}

func (p *gcpProvider) StopResource(ctx context.Context, resourceID string) error {
	zone, name, err := parseInstanceID(resourceID)
	if err != nil {
		return err
	}

	_, err = p.computeClient.Instances.Stop(p.projectID, zone, name).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to stop instance %s in %s: %w", name, zone, err)
	}

	zerolog.Ctx(ctx).Info().Str("instance", name).Str("zone", zone).Msg("stopped GCP instance")
	return nil
}

func (p *gcpProvider) TerminateResource(ctx context.Context, resourceID string) error {
	zone, name, err := parseInstanceID(resourceID)
	if err != nil {
		return err
	}

	_, err = p.computeClient.Instances.Delete(p.projectID, zone, name).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete instance %s in %s: %w", name, zone, err)
	}

	zerolog.Ctx(ctx).Info().Str("instance", name).Str("zone", zone).Msg("deleted GCP instance")
	return nil
}

func machineMonthlyCost(machineType string) float64 {
	return machinePricing.GetSkuPrice(machineType).MonthlyUSD
}

// parseInstanceID splits the provider-unique "<zone>/<instance>" form this
// adapter assigns to compute instances.
func parseInstanceID(resourceID string) (zone, name string, err error) {
	parts := strings.SplitN(resourceID, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("resource %q is not a GCP instance ID (expected zone/name)", resourceID)
	}
	return parts[0], parts[1], nil
}
