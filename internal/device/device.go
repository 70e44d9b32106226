// Package device selects the execution device for the image backend.
package device

import (
	"log"
	"os/exec"
)

// Fallback is the identifier returned whenever acceleration is unusable.
const Fallback = "cpu"

// Auto asks Resolve to probe for an accelerated device.
const Auto = "auto"

// Probe reports whether an accelerated compute device is present.
type Probe interface {
	Available() bool
	Name() string
}

// CUDAProbe detects NVIDIA acceleration by looking for nvidia-smi on PATH.
type CUDAProbe struct{}

// Available reports whether the NVIDIA driver tooling is installed.
func (CUDAProbe) Available() bool {
	_, err := exec.LookPath("nvidia-smi")
	return err == nil
}

// Name returns the default accelerated device identifier.
func (CUDAProbe) Name() string {
	return "cuda:0"
}

// Resolve returns a usable device identifier. An empty or "auto" request
// probes for acceleration; the fallback identifier passes through; any
// other identifier is honored only when acceleration is actually
// available, otherwise it is downgraded with a warning. Resolve never
// fails.
func Resolve(requested string, probe Probe) string {
	if probe == nil {
		probe = CUDAProbe{}
	}

	switch requested {
	case "", Auto:
		if probe.Available() {
			return probe.Name()
		}
		return Fallback
	case Fallback:
		return Fallback
	}

	if probe.Available() {
		return requested
	}

	log.Printf("[device] %s requested but acceleration is not available, falling back to %s", requested, Fallback)
	return Fallback
}
