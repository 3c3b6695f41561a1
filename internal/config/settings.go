// Package config loads the environment-derived settings consumed by the
// execution driver. Settings are resolved once at startup and injected into
// constructors; no component reads the environment ad hoc.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	podNameEnvironmentKeyConstant              = "WORKFLOW_POD_NAME"
	pollingIntervalEnvironmentKeyConstant      = "JOB_STATUS_POLLING_INTERVAL"
	cacheEnabledEnvironmentKeyConstant         = "CACHE_ENABLED"
	jobControllerAddressEnvironmentKeyConstant = "JOB_CONTROLLER_ADDRESS"
	cvmfsMountsEnvironmentKeyConstant          = "MOUNT_CVMFS"
	workflowKerberosEnvironmentKeyConstant     = "WORKFLOW_KERBEROS"

	defaultPollingIntervalSecondsConstant = 3
	defaultCacheEnabledConstant           = true
	defaultJobControllerAddressConstant   = "http://localhost:5000"

	invalidPollingIntervalMessageConstant = "invalid job status polling interval, falling back to default"
	pollingIntervalFieldNameConstant      = "polling_interval_seconds"
	defaultIntervalFieldNameConstant      = "default_interval_seconds"
)

// Settings captures the externally configured parameters of the execution driver.
type Settings struct {
	// PodName identifies the host pod for diagnostic metadata on progress events.
	PodName string
	// PollingInterval is the fixed sleep between job status queries.
	PollingInterval time.Duration
	// CacheEnabled is the process-wide cache master switch; runs can still opt out.
	CacheEnabled bool
	// JobControllerAddress is the base URL of the remote job execution service.
	JobControllerAddress string
	// CVMFSMounts lists the CVMFS volumes requested on every job specification.
	CVMFSMounts string
	// WorkflowKerberos is the default kerberos flag applied when a step has no override.
	WorkflowKerberos bool
}

// Load resolves settings from the process environment, applying documented defaults.
func Load(logger *zap.Logger) Settings {
	if logger == nil {
		logger = zap.NewNop()
	}

	environmentReader := viper.New()
	environmentReader.AutomaticEnv()
	environmentReader.SetDefault(pollingIntervalEnvironmentKeyConstant, defaultPollingIntervalSecondsConstant)
	environmentReader.SetDefault(cacheEnabledEnvironmentKeyConstant, defaultCacheEnabledConstant)
	environmentReader.SetDefault(jobControllerAddressEnvironmentKeyConstant, defaultJobControllerAddressConstant)

	pollingIntervalSeconds := environmentReader.GetInt(pollingIntervalEnvironmentKeyConstant)
	if pollingIntervalSeconds <= 0 {
		logger.Warn(
			invalidPollingIntervalMessageConstant,
			zap.Int(pollingIntervalFieldNameConstant, pollingIntervalSeconds),
			zap.Int(defaultIntervalFieldNameConstant, defaultPollingIntervalSecondsConstant),
		)
		pollingIntervalSeconds = defaultPollingIntervalSecondsConstant
	}

	return Settings{
		PodName:              strings.TrimSpace(environmentReader.GetString(podNameEnvironmentKeyConstant)),
		PollingInterval:      time.Duration(pollingIntervalSeconds) * time.Second,
		CacheEnabled:         environmentReader.GetBool(cacheEnabledEnvironmentKeyConstant),
		JobControllerAddress: strings.TrimSpace(environmentReader.GetString(jobControllerAddressEnvironmentKeyConstant)),
		CVMFSMounts:          strings.TrimSpace(environmentReader.GetString(cvmfsMountsEnvironmentKeyConstant)),
		WorkflowKerberos:     environmentReader.GetBool(workflowKerberosEnvironmentKeyConstant),
	}
}
