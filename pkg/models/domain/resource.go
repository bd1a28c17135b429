package domain

// Resource type tags shared by all provider adapters. Providers normalize
// their native inventory into these before the analysis pipeline runs.
const (
	ResourceComputeInstance    = "compute-instance"
	ResourceVirtualMachine     = "virtual-machine"
	ResourceManagedCompute     = "managed-compute"
	ResourceManagedDatabase    = "managed-database"
	ResourceObjectStorage      = "object-storage"
	ResourceStorageAccount     = "storage-account"
	ResourceCloudStorage       = "cloud-storage"
	ResourceServerlessFunction = "serverless-function"
)

// Utilization holds the recognized utilization metrics for a resource.
// Nil pointer fields mean the metric was not reported, which is distinct
// from a reported zero.
type Utilization struct {
	CPUPercent      *float64 // 0-100
	InvocationCount *int64
}

// Resource is one cloud-billable entity, normalized from a provider
// snapshot. It is immutable for the duration of an analysis pass.
type Resource struct {
	ID          string
	Type        string
	Region      string
	MonthlyCost float64 // estimate, always >= 0
	Tags        map[string]string
	Utilization *Utilization      // nil when the provider reported no metrics
	Metadata    map[string]string // provider-specific facts (instance size, state, size_gb, ...)
}
