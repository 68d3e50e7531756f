package addresstests

import (
	"context"
	"fmt"

	"github.com/addrcheck/webhook-contract-tests/framework"
	"github.com/addrcheck/webhook-contract-tests/servicedef"
)

// probeAddress is the synthetic address sent by the workflow probe.
var probeAddress = servicedef.AddressRecord{
	FirstName: "Test",
	LastName:  "User",
	Street:    "Teststrasse 1",
	City:      "Zürich",
	Postcode:  "8001",
}

// ProxyProbe checks that the address proxy answers on its health resource.
func ProxyProbe(cfg Config) framework.Probe {
	var cmd commandBuilder
	cmd.add(cfg.ProxyCommand...)
	remediation := "The address proxy must be started"
	if len(cmd) > 0 {
		remediation += ":\n   " + cmd.String()
	}
	return framework.Probe{
		Name:        "address proxy",
		URL:         cfg.ProxyHealthURL(),
		Payload:     struct{}{},
		Remediation: remediation,
	}
}

// WorkflowProbe checks that the validation webhook accepts a well-formed address.
func WorkflowProbe(cfg Config) framework.Probe {
	return framework.Probe{
		Name:    "n8n workflow",
		URL:     cfg.WebhookURL(),
		Payload: probeAddress,
		Remediation: fmt.Sprintf(
			"The n8n workflow must be imported and activated so that POST %s returns HTTP 200",
			cfg.WebhookURL(),
		),
	}
}

// Preconditions returns the probes that must succeed before any fixture is run, in order.
func Preconditions(cfg Config) []framework.Probe {
	return []framework.Probe{ProxyProbe(cfg), WorkflowProbe(cfg)}
}

// ProbeProxy reports whether the address proxy is reachable.
func ProbeProxy(ctx context.Context, harness *framework.TestHarness, cfg Config) bool {
	return harness.RunProbe(ctx, ProxyProbe(cfg))
}

// ProbeWorkflow reports whether the validation webhook is reachable.
func ProbeWorkflow(ctx context.Context, harness *framework.TestHarness, cfg Config) bool {
	return harness.RunProbe(ctx, WorkflowProbe(cfg))
}
