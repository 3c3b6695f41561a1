// Package jobspec assembles the fully resolved specifications handed to the
// remote job execution service. Building a specification is pure value
// assembly: no I/O, no validation of the workspace path (callers guarantee it
// is absolute and exists before any job is built).
package jobspec

// Specification describes one remote execution unit. The combination of
// image, compute backend, resolved command, workspace, and the resource and
// authentication options uniquely determines the unit; the remote cache key
// is a fingerprint of this value.
type Specification struct {
	Image                   string `json:"image"`
	ComputeBackend          string `json:"compute_backend"`
	Command                 string `json:"cmd"`
	PrettifiedCommand       string `json:"prettified_cmd"`
	WorkflowWorkspace       string `json:"workflow_workspace"`
	JobName                 string `json:"job_name"`
	CVMFSMounts             string `json:"cvmfs_mounts"`
	WorkflowUUID            string `json:"workflow_uuid"`
	Kerberos                bool   `json:"kerberos"`
	UnpackedImage           bool   `json:"unpacked_img"`
	KubernetesUID           *int64 `json:"kubernetes_uid,omitempty"`
	KubernetesMemoryLimit   string `json:"kubernetes_memory_limit,omitempty"`
	KubernetesJobTimeout    *int64 `json:"kubernetes_job_timeout,omitempty"`
	VomsProxy               bool   `json:"voms_proxy"`
	Rucio                   bool   `json:"rucio"`
	HTCondorMaxRuntime      string `json:"htcondor_max_runtime,omitempty"`
	HTCondorAccountingGroup string `json:"htcondor_accounting_group,omitempty"`
	SlurmPartition          string `json:"slurm_partition,omitempty"`
	SlurmTime               string `json:"slurm_time,omitempty"`
}

// ForCacheLookup returns a copy whose command is the raw step command. Cache
// identity must not depend on the workspace-change prefix embedded in the
// resolved command.
func (specification Specification) ForCacheLookup() Specification {
	lookupSpecification := specification
	lookupSpecification.Command = specification.PrettifiedCommand
	return lookupSpecification
}
