package server

import (
	"context"

	"fleetmon/internal/agentapi"
	"fleetmon/internal/alarms"
	"fleetmon/internal/api/tools"
	"fleetmon/internal/cloudapi"
	"fleetmon/internal/config"
	"fleetmon/internal/prober"
	"fleetmon/internal/provider"
	"fleetmon/internal/wiki"
)

// Assemble wires the outbound clients and returns the full tool
// registry for one configuration.
func Assemble(cfg config.Config) []tools.Registration {
	cloudClient := cloudapi.New(cfg.Cloud)
	agentClient := agentapi.New(cfg.Agent)
	providerClient := provider.New(cfg.Provider)
	wikiClient := wiki.New(cfg.Wiki)

	alarmSource := alarms.New(cloudClient, agentClient, cfg.Cloud.AggregateRoom)

	// Activity probes always go through the sandbox agent; the cloud is
	// only consulted for the context list.
	sandboxHost := cfg.Agent.SandboxHost
	activityProber := prober.New(func(ctx context.Context, identifier string) (*agentapi.Series, error) {
		return agentClient.Data(ctx, sandboxHost, identifier)
	}, cfg.Probe.BatchDelay)

	infraTools := tools.NewInfraTools(cloudClient, alarmSource, activityProber, cfg.Probe.BatchSize)
	providerTools := tools.NewProviderTools(providerClient, alarmSource)
	wikiTools := tools.NewWikiTools(wikiClient)

	var registrations []tools.Registration
	registrations = append(registrations, infraTools.Registrations()...)
	registrations = append(registrations, providerTools.Registrations()...)
	registrations = append(registrations, wikiTools.Registrations()...)
	return registrations
}
