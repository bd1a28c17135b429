package aws

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const metricLookbackDays = 7

// averageCPU returns the mean CPUUtilization over the lookback window, or
// false when CloudWatch has no datapoints for the dimension.
func averageCPU(ctx context.Context, client *cloudwatch.Client, namespace, dimensionName, dimensionValue string) (float64, bool, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -metricLookbackDays)

	result, err := client.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(namespace),
		MetricName: aws.String("CPUUtilization"),
		Dimensions: []cwtypes.Dimension{
			{
				Name:  aws.String(dimensionName),
				Value: aws.String(dimensionValue),
			},
		},
		StartTime:  aws.Time(start),
		EndTime:    aws.Time(end),
		Period:     aws.Int32(3600), // 1 hour
		Statistics: []cwtypes.Statistic{cwtypes.StatisticAverage},
	})
	if err != nil {
		return 0, false, err
	}
	if len(result.Datapoints) == 0 {
		return 0, false, nil
	}

	var sum float64
	for _, dp := range result.Datapoints {
		sum += aws.ToFloat64(dp.Average)
	}
	return sum / float64(len(result.Datapoints)), true, nil
}

// invocationSum returns the total Lambda invocations over the lookback
// window.
func invocationSum(ctx context.Context, client *cloudwatch.Client, functionName string) (int64, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -metricLookbackDays)

	result, err := client.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String("AWS/Lambda"),
		MetricName: aws.String("Invocations"),
		Dimensions: []cwtypes.Dimension{
			{
				Name:  aws.String("FunctionName"),
				Value: aws.String(functionName),
			},
		},
		StartTime:  aws.Time(start),
		EndTime:    aws.Time(end),
		Period:     aws.Int32(86400), // 1 day
		Statistics: []cwtypes.Statistic{cwtypes.StatisticSum},
	})
	if err != nil {
		return 0, err
	}

	var total float64
	for _, dp := range result.Datapoints {
		total += aws.ToFloat64(dp.Sum)
	}
	return int64(total), nil
}
