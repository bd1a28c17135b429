package aws

import "github.com/finops-tools/cloudopt/pkg/store/pricing"

// Rough on-demand monthly cost estimates in USD. Exact billing-API pricing
// is out of scope; these back the monthly_cost estimate the analysis
// consumes when Cost Explorer has no per-resource figure.
var ec2Pricing = pricing.NewStaticStore(map[string]float64{
	"t3.micro":   7.5,
	"t3.small":   15.0,
	"t3.medium":  30.0,
	"t3.large":   60.0,
	"t3.xlarge":  120.0,
	"m5.large":   96.0,
	"m5.xlarge":  192.0,
	"m5.2xlarge": 384.0,
	"c5.large":   85.0,
	"c5.xlarge":  170.0,
}, defaultEC2MonthlyCost)

var rdsPricing = pricing.NewStaticStore(map[string]float64{
	"db.t3.micro":   15.0,
	"db.t3.small":   30.0,
	"db.t3.medium":  60.0,
	"db.r5.large":   200.0,
	"db.r5.xlarge":  400.0,
	"db.r5.2xlarge": 800.0,
}, defaultRDSMonthlyCost)

const (
	defaultEC2MonthlyCost = 50.0
	defaultRDSMonthlyCost = 100.0

	rdsStorageGBMonth = 0.10
	s3StandardGBMonth = 0.023

	lambdaCostPerMillionRequests = 0.20
	lambdaCostPerGBSecond        = 0.0000166667
)

func ec2MonthlyCost(instanceType string) float64 {
	return ec2Pricing.GetSkuPrice(instanceType).MonthlyUSD
}

func rdsMonthlyCost(instanceClass string, allocatedStorageGB int32) float64 {
	return rdsPricing.GetSkuPrice(instanceClass).MonthlyUSD + float64(allocatedStorageGB)*rdsStorageGBMonth
}

func lambdaMonthlyCost(invocations int64, memoryMB int32) float64 {
	// Assumes an average one second execution per invocation.
	gbSeconds := float64(invocations) * float64(memoryMB) / 1024
	requestCost := float64(invocations) / 1_000_000 * lambdaCostPerMillionRequests
	return requestCost + gbSeconds*lambdaCostPerGBSecond
}
