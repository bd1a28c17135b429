package azure

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v5"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/costmanagement/armcostmanagement"
	"github.com/finops-tools/cloudopt/pkg/models/domain"
	"github.com/finops-tools/cloudopt/pkg/services/provider"
	"github.com/finops-tools/cloudopt/pkg/store/pricing"
	"github.com/rs/zerolog"
)

// Rough monthly VM cost estimates in USD; varies by region and OS.
var vmPricing = pricing.NewStaticStore(map[string]float64{
	"Standard_B1s":    10.0,
	"Standard_B2s":    20.0,
	"Standard_D2s_v3": 70.0,
	"Standard_D4s_v3": 140.0,
	"Standard_D8s_v3": 280.0,
}, defaultVMMonthlyCost)

const defaultVMMonthlyCost = 50.0

type azureProvider struct {
	subscriptionID string
	scope          string
	costFactory    *armcostmanagement.ClientFactory
	vmClient       *armcompute.VirtualMachinesClient
}

// Factory creates an Azure provider from a profile config file.
func Factory(ctx context.Context, configPath string) (provider.Provider, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cred, err := credential(cfg)
	if err != nil {
		return nil, err
	}

	costFactory, err := armcostmanagement.NewClientFactory(cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cost management factory: %w", err)
	}

	vmClient, err := armcompute.NewVirtualMachinesClient(cfg.SubscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create compute client: %w", err)
	}

	return &azureProvider{
		subscriptionID: cfg.SubscriptionID,
		scope:          fmt.Sprintf("/subscriptions/%s", cfg.SubscriptionID),
		costFactory:    costFactory,
		vmClient:       vmClient,
	}, nil
}

func (p *azureProvider) Name() string { return "azure" }

func (p *azureProvider) GetCostData(ctx context.Context, start, end time.Time) (domain.CostData, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Time("start", start).
		Time("end", end).
		Str("subscription", p.subscriptionID).
		Msg("fetching Azure cost data")

	costsByService, costsByRegion, totalCost, err := p.queryCosts(ctx, start, end)
	if err != nil {
		return domain.CostData{}, err
	}

	resources, err := p.virtualMachines(ctx)
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

func (p *azureProvider) queryCosts(ctx context.Context, start, end time.Time) (map[string]float64, map[string]float64, float64, error) {
	client := p.costFactory.NewQueryClient()

	exportType := armcostmanagement.ExportTypeActualCost
	timeframe := armcostmanagement.TimeframeTypeCustom
	granularity := armcostmanagement.GranularityTypeDaily
	dimension := armcostmanagement.QueryColumnTypeDimension
	sumFunc := armcostmanagement.FunctionTypeSum

	params := armcostmanagement.QueryDefinition{
		Type:      &exportType,
		Timeframe: &timeframe,
		TimePeriod: &armcostmanagement.QueryTimePeriod{
			From: &start,
			To:   &end,
		},
		Dataset: &armcostmanagement.QueryDataset{
			Granularity: &granularity,
			Aggregation: map[string]*armcostmanagement.QueryAggregation{
				"totalCost": {
					Name:     to.Ptr("Cost"),
					Function: &sumFunc,
				},
			},
			Grouping: []*armcostmanagement.QueryGrouping{
				{Name: to.Ptr("ServiceName"), Type: &dimension},
				{Name: to.Ptr("ResourceLocation"), Type: &dimension},
			},
		},
	}

	result, err := client.Usage(ctx, p.scope, params, nil)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to query costs: %w", err)
	}

	costIdx, serviceIdx, regionIdx := columnIndices(result.Properties.Columns)

	costsByService := map[string]float64{}
	costsByRegion := map[string]float64{}
	var totalCost float64

	for _, row := range result.Properties.Rows {
		if costIdx >= len(row) || serviceIdx >= len(row) {
			continue
		}
		cost, ok := row[costIdx].(float64)
		if !ok {
			continue
		}

		service := fmt.Sprintf("%v", row[serviceIdx])
		costsByService[service] += cost
		totalCost += cost

		region := "N/A"
		if regionIdx >= 0 && regionIdx < len(row) {
			region = fmt.Sprintf("%v", row[regionIdx])
		}
		costsByRegion[region] += cost
	}

	return costsByService, costsByRegion, totalCost, nil
}

// columnIndices locates the cost and grouping columns in a query response;
// the service responds with columns in grouping order but that is not
// contractual.
func columnIndices(columns []*armcostmanagement.QueryColumn) (cost, service, region int) {
	cost, service, region = 0, -1, -1
	for i, col := range columns {
		switch deref(col.Name) {
		case "Cost", "totalCost":
			cost = i
		case "ServiceName":
			service = i
		case "ResourceLocation":
			region = i
		}
	}
	return cost, service, region
}

func (p *azureProvider) virtualMachines(ctx context.Context) ([]domain.Resource, error) {
	logger := zerolog.Ctx(ctx)

	var resources []domain.Resource
	pager := p.vmClient.NewListAllPager(&armcompute.VirtualMachinesClientListAllOptions{
		StatusOnly: to.Ptr("false"),
	})

	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list virtual machines: %w", err)
		}

		for _, vm := range page.Value {
			if vm == nil || vm.ID == nil {
				continue
			}

			vmID := deref(vm.ID)
			vmName := deref(vm.Name)
			resourceGroup := resourceGroupFromID(vmID)

			vmSize := "Standard_B1s"
			if vm.Properties != nil && vm.Properties.HardwareProfile != nil && vm.Properties.HardwareProfile.VMSize != nil {
				vmSize = string(*vm.Properties.HardwareProfile.VMSize)
			}

			tags := map[string]string{}
			for k, v := range vm.Tags {
				tags[k] = deref(v)
			}

			metadata := map[string]string{
				"vm_size":        vmSize,
				"resource_group": resourceGroup,
				"name":           vmName,
			}
			if state, ok := p.powerState(ctx, resourceGroup, vmName); ok {
				metadata["status"] = state
			} else {
				logger.Debug().Str("vm", vmName).Msg("no power state available")
			}

			resources = append(resources, domain.Resource{
				ID:          vmID,
				Type:        domain.ResourceVirtualMachine,
				Region:      deref(vm.Location),
				MonthlyCost: vmMonthlyCost(vmSize),
				Tags:        tags,
				Metadata:    metadata,
			})
		}
	}

	return resources, nil
}

// powerState reads the VM instance view and extracts the PowerState code,
// e.g. "PowerState/deallocated" -> "deallocated".
func (p *azureProvider) powerState(ctx context.Context, resourceGroup, vmName string) (string, bool) {
	view, err := p.vmClient.InstanceView(ctx, resourceGroup, vmName, nil)
	if err != nil {
		return "", false
	}
	for _, status := range view.Statuses {
		code := deref(status.Code)
		if rest, ok := strings.CutPrefix(code, "PowerState/"); ok {
			return rest, true
		}
	}
	return "", false
}

func (p *azureProvider) StopResource(ctx context.Context, resourceID string) error {
	resourceGroup, vmName, err := parseVMID(resourceID)
	if err != nil {
		return err
	}

	poller, err := p.vmClient.BeginDeallocate(ctx, resourceGroup, vmName, nil)
	if err != nil {
		return fmt.Errorf("failed to deallocate VM %s: %w", vmName, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("deallocation of VM %s did not complete: %w", vmName, err)
	}

	zerolog.Ctx(ctx).Info().Str("vm", vmName).Str("resource_group", resourceGroup).Msg("deallocated Azure VM")
	return nil
}

func (p *azureProvider) TerminateResource(ctx context.Context, resourceID string) error {
	resourceGroup, vmName, err := parseVMID(resourceID)
	if err != nil {
		return err
	}

	poller, err := p.vmClient.BeginDelete(ctx, resourceGroup, vmName, nil)
	if err != nil {
		return fmt.Errorf("failed to delete VM %s: %w", vmName, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("deletion of VM %s did not complete: %w", vmName, err)
	}

	zerolog.Ctx(ctx).Info().Str("vm", vmName).Str("resource_group", resourceGroup).Msg("deleted Azure VM")
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func vmMonthlyCost(vmSize string) float64 {
	return vmPricing.GetSkuPrice(vmSize).MonthlyUSD
}

func resourceGroupFromID(resourceID string) string {
	parts := strings.Split(resourceID, "/")
	for i, part := range parts {
		if strings.EqualFold(part, "resourceGroups") && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

// parseVMID splits a full Azure resource ID
// (/subscriptions/../resourceGroups/<rg>/providers/Microsoft.Compute/virtualMachines/<name>)
// into its resource group and VM name.
func parseVMID(resourceID string) (resourceGroup, vmName string, err error) {
	parts := strings.Split(resourceID, "/")
	for i, part := range parts {
		switch {
		case strings.EqualFold(part, "resourceGroups") && i+1 < len(parts):
			resourceGroup = parts[i+1]
		case strings.EqualFold(part, "virtualMachines") && i+1 < len(parts):
			vmName = parts[i+1]
		}
	}
	if resourceGroup == "" || vmName == "" {
		return "", "", fmt.Errorf("resource %q is not an Azure virtual machine ID", resourceID)
	}
	return resourceGroup, vmName, nil
}
