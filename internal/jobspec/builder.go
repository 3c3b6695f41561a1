package jobspec

import "fmt"

const resolvedCommandTemplateConstant = "cd %s && %s"

// ExecutionEnvironment captures the workflow-level context shared by every
// job specification built for one run.
type ExecutionEnvironment struct {
	WorkflowUUID      string
	WorkflowWorkspace string
	CVMFSMounts       string
	DefaultKerberos   bool
}

// Options carries the per-step image, backend, resource, and authentication
// knobs applied to a job specification.
type Options struct {
	Image                   string
	ComputeBackend          string
	Kerberos                *bool
	UnpackedImage           bool
	KubernetesUID           *int64
	KubernetesMemoryLimit   string
	KubernetesJobTimeout    *int64
	VomsProxy               bool
	Rucio                   bool
	HTCondorMaxRuntime      string
	HTCondorAccountingGroup string
	SlurmPartition          string
	SlurmTime               string
}

// Builder produces fully resolved job specifications for one workflow.
type Builder struct {
	environment ExecutionEnvironment
}

// NewBuilder constructs a Builder bound to the provided execution environment.
func NewBuilder(environment ExecutionEnvironment) Builder {
	return Builder{environment: environment}
}

// Build assembles the specification for a single command. The working
// directory is embedded by prefixing the command with a change into the
// workflow workspace.
func (builder Builder) Build(jobName string, command string, options Options) Specification {
	kerberos := builder.environment.DefaultKerberos
	if options.Kerberos != nil {
		kerberos = *options.Kerberos
	}

	return Specification{
		Image:                   options.Image,
		ComputeBackend:          options.ComputeBackend,
		Command:                 fmt.Sprintf(resolvedCommandTemplateConstant, builder.environment.WorkflowWorkspace, command),
		PrettifiedCommand:       command,
		WorkflowWorkspace:       builder.environment.WorkflowWorkspace,
		JobName:                 jobName,
		CVMFSMounts:             builder.environment.CVMFSMounts,
		WorkflowUUID:            builder.environment.WorkflowUUID,
		Kerberos:                kerberos,
		UnpackedImage:           options.UnpackedImage,
		KubernetesUID:           options.KubernetesUID,
		KubernetesMemoryLimit:   options.KubernetesMemoryLimit,
		KubernetesJobTimeout:    options.KubernetesJobTimeout,
		VomsProxy:               options.VomsProxy,
		Rucio:                   options.Rucio,
		HTCondorMaxRuntime:      options.HTCondorMaxRuntime,
		HTCondorAccountingGroup: options.HTCondorAccountingGroup,
		SlurmPartition:          options.SlurmPartition,
		SlurmTime:               options.SlurmTime,
	}
}
