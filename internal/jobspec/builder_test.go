package jobspec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyemirov/serialflow/internal/jobspec"
)

func TestBuildResolvesCommandInsideWorkspace(testInstance *testing.T) {
	builder := jobspec.NewBuilder(jobspec.ExecutionEnvironment{
		WorkflowUUID:      "2a7a1f44-5a1e-4f91-bd0c-6f1c4d63d1e2",
		WorkflowWorkspace: "/var/reana/workspace",
		CVMFSMounts:       "sft.cern.ch",
		DefaultKerberos:   false,
	})

	specification := builder.Build("fit", "echo a", jobspec.Options{
		Image:          "python:3.12",
		ComputeBackend: "kubernetes",
	})

	require.Equal(testInstance, "cd /var/reana/workspace && echo a", specification.Command)
	require.Equal(testInstance, "echo a", specification.PrettifiedCommand)
	require.Equal(testInstance, "fit", specification.JobName)
	require.Equal(testInstance, "python:3.12", specification.Image)
	require.Equal(testInstance, "kubernetes", specification.ComputeBackend)
	require.Equal(testInstance, "sft.cern.ch", specification.CVMFSMounts)
	require.Equal(testInstance, "2a7a1f44-5a1e-4f91-bd0c-6f1c4d63d1e2", specification.WorkflowUUID)
	require.False(testInstance, specification.Kerberos)
}

func TestBuildIsDeterministic(testInstance *testing.T) {
	builder := jobspec.NewBuilder(jobspec.ExecutionEnvironment{WorkflowWorkspace: "/workspace"})

	first := builder.Build("fit", "echo a", jobspec.Options{Image: "busybox"})
	second := builder.Build("fit", "echo a", jobspec.Options{Image: "busybox"})

	require.Equal(testInstance, first, second)
}

func TestBuildAppliesStepOverrides(testInstance *testing.T) {
	stepKerberos := true
	kubernetesUID := int64(1000)
	jobTimeout := int64(600)

	builder := jobspec.NewBuilder(jobspec.ExecutionEnvironment{
		WorkflowWorkspace: "/workspace",
		DefaultKerberos:   false,
	})

	specification := builder.Build("train", "run.sh", jobspec.Options{
		Image:                 "gitlab-registry.cern.ch/analysis:latest",
		Kerberos:              &stepKerberos,
		UnpackedImage:         true,
		KubernetesUID:         &kubernetesUID,
		KubernetesMemoryLimit: "8Gi",
		KubernetesJobTimeout:  &jobTimeout,
		VomsProxy:             true,
		SlurmPartition:        "short",
	})

	require.True(testInstance, specification.Kerberos)
	require.True(testInstance, specification.UnpackedImage)
	require.NotNil(testInstance, specification.KubernetesUID)
	require.Equal(testInstance, int64(1000), *specification.KubernetesUID)
	require.Equal(testInstance, "8Gi", specification.KubernetesMemoryLimit)
	require.NotNil(testInstance, specification.KubernetesJobTimeout)
	require.Equal(testInstance, int64(600), *specification.KubernetesJobTimeout)
	require.True(testInstance, specification.VomsProxy)
	require.Equal(testInstance, "short", specification.SlurmPartition)
}

func TestForCacheLookupStripsWorkspacePrefix(testInstance *testing.T) {
	builder := jobspec.NewBuilder(jobspec.ExecutionEnvironment{WorkflowWorkspace: "/workspace"})

	specification := builder.Build("fit", "echo a", jobspec.Options{Image: "busybox"})
	lookupSpecification := specification.ForCacheLookup()

	require.Equal(testInstance, "echo a", lookupSpecification.Command)
	require.Equal(testInstance, specification.PrettifiedCommand, lookupSpecification.Command)

	lookupSpecification.Command = specification.Command
	require.Equal(testInstance, specification, lookupSpecification)
}
