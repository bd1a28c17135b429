package aws

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/finops-tools/cloudopt/pkg/models/domain"
	"github.com/finops-tools/cloudopt/pkg/services/provider"
	"github.com/rs/zerolog"
)

type awsProvider struct {
	region     string
	ceClient   *costexplorer.Client
	ec2Client  *ec2.Client
	rdsClient  *rds.Client
	s3Client   *s3.Client
	lambdaClnt *lambda.Client
	cwClient   *cloudwatch.Client
}

// Factory creates an AWS provider from a profile config file.
func Factory(ctx context.Context, configPath string) (provider.Provider, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	sdkCfg, err := loadSDKConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return New(*sdkCfg), nil
}

// New creates an AWS provider on top of an already-resolved SDK config.
func New(cfg awssdk.Config) provider.Provider {
	return &awsProvider{
		region:     cfg.Region,
		ceClient:   costexplorer.NewFromConfig(cfg),
		ec2Client:  ec2.NewFromConfig(cfg),
		rdsClient:  rds.NewFromConfig(cfg),
		s3Client:   s3.NewFromConfig(cfg),
		lambdaClnt: lambda.NewFromConfig(cfg),
		cwClient:   cloudwatch.NewFromConfig(cfg),
	}
}

func (p *awsProvider) Name() string { return "aws" }

func (p *awsProvider) GetCostData(ctx context.Context, start, end time.Time) (domain.CostData, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Time("start", start).
		Time("end", end).
		Msg("fetching AWS cost data")

	result, err := p.ceClient.GetCostAndUsage(ctx, &costexplorer.GetCostAndUsageInput{
		TimePeriod: &cetypes.DateInterval{
			Start: awssdk.String(start.Format("2006-01-02")),
			End:   awssdk.String(end.Format("2006-01-02")),
		},
		Granularity: cetypes.GranularityDaily,
		Metrics:     []string{"BlendedCost", "UnblendedCost"},
		GroupBy: []cetypes.GroupDefinition{
			{Type: cetypes.GroupDefinitionTypeDimension, Key: awssdk.String("SERVICE")},
			{Type: cetypes.GroupDefinitionTypeDimension, Key: awssdk.String("REGION")},
		},
	})
	if err != nil {
		return domain.CostData{}, fmt.Errorf("failed to get cost and usage: %w", err)
	}

	costsByService := map[string]float64{}
	costsByRegion := map[string]float64{}
	var totalCost float64

	for _, period := range result.ResultsByTime {
		for _, group := range period.Groups {
			if len(group.Keys) == 0 {
				continue
			}
			service := group.Keys[0]
			region := "N/A"
			if len(group.Keys) > 1 {
				region = group.Keys[1]
			}

			metric, ok := group.Metrics["BlendedCost"]
			if !ok || metric.Amount == nil {
				continue
			}
			amount, err := strconv.ParseFloat(awssdk.ToString(metric.Amount), 64)
			if err != nil {
				logger.Debug().Str("service", service).Msg("skipping unparseable cost amount")
				continue
			}

			costsByService[service] += amount
			costsByRegion[region] += amount
			totalCost += amount
		}
	}

	resources, err := p.collectResources(ctx)
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

func (p *awsProvider) collectResources(ctx context.Context) ([]domain.Resource, error) {
	logger := zerolog.Ctx(ctx)
	var resources []domain.Resource

	instances, err := p.ec2Instances(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch EC2 instances: %w", err)
	}
	resources = append(resources, instances...)

	databases, err := p.rdsInstances(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("skipping RDS inventory")
	} else {
		resources = append(resources, databases...)
	}

	buckets, err := p.s3Buckets(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("skipping S3 inventory")
	} else {
		resources = append(resources, buckets...)
	}

	functions, err := p.lambdaFunctions(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("skipping Lambda inventory")
	} else {
		resources = append(resources, functions...)
	}

	return resources, nil
}

func (p *awsProvider) ec2Instances(ctx context.Context) ([]domain.Resource, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := p.ec2Client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{})
	if err != nil {
		return nil, err
	}

	var resources []domain.Resource
	for _, reservation := range resp.Reservations {
		for _, instance := range reservation.Instances {
			if instance.State == nil || instance.State.Name == ec2types.InstanceStateNameTerminated {
				continue
			}
			state := string(instance.State.Name)

			instanceID := awssdk.ToString(instance.InstanceId)
			instanceType := string(instance.InstanceType)

			tags := map[string]string{}
			for _, tag := range instance.Tags {
				tags[awssdk.ToString(tag.Key)] = awssdk.ToString(tag.Value)
			}

			var utilization *domain.Utilization
			cpu, ok, err := averageCPU(ctx, p.cwClient, "AWS/EC2", "InstanceId", instanceID)
			if err != nil {
				logger.Debug().Err(err).Str("instance", instanceID).Msg("no utilization metrics")
			} else if ok {
				utilization = &domain.Utilization{CPUPercent: &cpu}
			}

			region := p.region
			if instance.Placement != nil && instance.Placement.AvailabilityZone != nil {
				region = awssdk.ToString(instance.Placement.AvailabilityZone)
			}

			metadata := map[string]string{
				"instance_type": instanceType,
				"state":         state,
			}
			if instance.LaunchTime != nil {
				metadata["launch_time"] = instance.LaunchTime.Format(time.RFC3339)
			}

			resources = append(resources, domain.Resource{
				ID:          instanceID,
				Type:        domain.ResourceComputeInstance,
				Region:      region,
				MonthlyCost: ec2MonthlyCost(instanceType),
				Tags:        tags,
				Utilization: utilization,
				Metadata:    metadata,
			})
		}
	}

	return resources, nil
}

func (p *awsProvider) rdsInstances(ctx context.Context) ([]domain.Resource, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := p.rdsClient.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{})
	if err != nil {
		return nil, err
	}

	var resources []domain.Resource
	for _, db := range resp.DBInstances {
		dbID := awssdk.ToString(db.DBInstanceIdentifier)

		tags := map[string]string{}
		tagResp, err := p.rdsClient.ListTagsForResource(ctx, &rds.ListTagsForResourceInput{
			ResourceName: db.DBInstanceArn,
		})
		if err != nil {
			logger.Debug().Err(err).Str("db", dbID).Msg("no tags for RDS instance")
		} else {
			for _, tag := range tagResp.TagList {
				tags[awssdk.ToString(tag.Key)] = awssdk.ToString(tag.Value)
			}
		}

		var utilization *domain.Utilization
		cpu, ok, err := averageCPU(ctx, p.cwClient, "AWS/RDS", "DBInstanceIdentifier", dbID)
		if err != nil {
			logger.Debug().Err(err).Str("db", dbID).Msg("no utilization metrics")
		} else if ok {
			utilization = &domain.Utilization{CPUPercent: &cpu}
		}

		region := p.region
		if db.AvailabilityZone != nil {
			region = awssdk.ToString(db.AvailabilityZone)
		}

		instanceClass := awssdk.ToString(db.DBInstanceClass)
		allocatedStorage := awssdk.ToInt32(db.AllocatedStorage)

		resources = append(resources, domain.Resource{
			ID:          dbID,
			Type:        domain.ResourceManagedDatabase,
			Region:      region,
			MonthlyCost: rdsMonthlyCost(instanceClass, allocatedStorage),
			Tags:        tags,
			Utilization: utilization,
			Metadata: map[string]string{
				"engine":            awssdk.ToString(db.Engine),
				"instance_class":    instanceClass,
				"status":            awssdk.ToString(db.DBInstanceStatus),
				"allocated_storage": strconv.Itoa(int(allocatedStorage)),
			},
		})
	}

	return resources, nil
}

func (p *awsProvider) s3Buckets(ctx context.Context) ([]domain.Resource, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := p.s3Client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, err
	}

	var resources []domain.Resource
	for _, bucket := range resp.Buckets {
		name := awssdk.ToString(bucket.Name)

		sizeGB, err := p.bucketSizeGB(ctx, name)
		if err != nil {
			logger.Debug().Err(err).Str("bucket", name).Msg("could not size bucket")
			continue
		}

		tags := map[string]string{}
		tagResp, err := p.s3Client.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{
			Bucket: awssdk.String(name),
		})
		if err == nil {
			for _, tag := range tagResp.TagSet {
				tags[awssdk.ToString(tag.Key)] = awssdk.ToString(tag.Value)
			}
		}

		metadata := map[string]string{
			"size_gb": strconv.FormatFloat(sizeGB, 'f', -1, 64),
		}
		if bucket.CreationDate != nil {
			metadata["creation_date"] = bucket.CreationDate.Format(time.RFC3339)
		}

		resources = append(resources, domain.Resource{
			ID:          name,
			Type:        domain.ResourceObjectStorage,
			Region:      p.region,
			MonthlyCost: sizeGB * s3StandardGBMonth,
			Tags:        tags,
			Metadata:    metadata,
		})
	}

	return resources, nil
}

func (p *awsProvider) bucketSizeGB(ctx context.Context, bucket string) (float64, error) {
	paginator := s3.NewListObjectsV2Paginator(p.s3Client, &s3.ListObjectsV2Input{
		Bucket: awssdk.String(bucket),
	})

	var totalBytes int64
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		for _, obj := range page.Contents {
			totalBytes += awssdk.ToInt64(obj.Size)
		}
	}

	return float64(totalBytes) / (1 << 30), nil
}

func (p *awsProvider) lambdaFunctions(ctx context.Context) ([]domain.Resource, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := p.lambdaClnt.ListFunctions(ctx, &lambda.ListFunctionsInput{})
	if err != nil {
		return nil, err
	}

	var resources []domain.Resource
	for _, fn := range resp.Functions {
		name := awssdk.ToString(fn.FunctionName)
		arn := awssdk.ToString(fn.FunctionArn)

		tags := map[string]string{}
		tagResp, err := p.lambdaClnt.ListTags(ctx, &lambda.ListTagsInput{
			Resource: fn.FunctionArn,
		})
		if err == nil {
			for k, v := range tagResp.Tags {
				tags[k] = v
			}
		}

		var utilization *domain.Utilization
		invocations, err := invocationSum(ctx, p.cwClient, name)
		if err != nil {
			logger.Debug().Err(err).Str("function", name).Msg("no invocation metrics")
		} else {
			utilization = &domain.Utilization{InvocationCount: &invocations}
		}

		region := p.region
		if parts := strings.Split(arn, ":"); len(parts) > 3 {
			region = parts[3]
		}

		memoryMB := awssdk.ToInt32(fn.MemorySize)

		resources = append(resources, domain.Resource{
			ID:          name,
			Type:        domain.ResourceServerlessFunction,
			Region:      region,
			MonthlyCost: lambdaMonthlyCost(invocations, memoryMB),
			Tags:        tags,
			Utilization: utilization,
			Metadata: map[string]string{
				"runtime":     string(fn.Runtime),
				"memory_size": strconv.Itoa(int(memoryMB)),
			},
		})
	}

	return resources, nil
}

func (p *awsProvider) StopResource(ctx context.Context, resourceID string) error {
	if !strings.HasPrefix(resourceID, "i-") {
		return fmt.Errorf("resource %q is not a stoppable EC2 instance", resourceID)
	}

	_, err := p.ec2Client.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: []string{resourceID},
	})
	if err != nil {
		return fmt.Errorf("failed to stop instance %s: %w", resourceID, err)
	}

	zerolog.Ctx(ctx).Info().Str("instance", resourceID).Msg("stopped EC2 instance")
	return nil
}

func (p *awsProvider) TerminateResource(ctx context.Context, resourceID string) error {
	if !strings.HasPrefix(resourceID, "i-") {
		return fmt.Errorf("resource %q is not a terminable EC2 instance", resourceID)
	}

	_, err := p.ec2Client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{resourceID},
	})
	if err != nil {
		return fmt.Errorf("failed to terminate instance %s: %w", resourceID, err)
	}

	zerolog.Ctx(ctx).Info().Str("instance", resourceID).Msg("terminated EC2 instance")
	return nil
}

// MoveStorageTier installs a lifecycle rule transitioning all objects in the
// bucket to the target storage class after 30 days.
func (p *awsProvider) MoveStorageTier(ctx context.Context, resourceID, targetTier string) error {
	storageClass := s3types.TransitionStorageClass(strings.ToUpper(targetTier))

	_, err := p.s3Client.PutBucketLifecycleConfiguration(ctx, &s3.PutBucketLifecycleConfigurationInput{
		Bucket: awssdk.String(resourceID),
		LifecycleConfiguration: &s3types.BucketLifecycleConfiguration{
			Rules: []s3types.LifecycleRule{
				{
					ID:     awssdk.String("cloudopt-tier-transition"),
					Status: s3types.ExpirationStatusEnabled,
					Filter: &s3types.LifecycleRuleFilterMemberPrefix{Value: ""},
					Transitions: []s3types.Transition{
						{
							Days:         awssdk.Int32(30),
							StorageClass: storageClass,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to set lifecycle on bucket %s: %w", resourceID, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("bucket", resourceID).
		Str("storage_class", string(storageClass)).
		Msg("installed lifecycle transition")
	return nil
}
