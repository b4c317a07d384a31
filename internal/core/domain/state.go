package domain

// ProvisioningState is the lifecycle state of a provisioning manager.
type ProvisioningState int

const (
	Idle ProvisioningState = iota
	Installing
	WaitingReady
	Ready
	Failed
	TornDown
)

func (s ProvisioningState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Installing:
		return "Installing"
	case WaitingReady:
		return "WaitingReady"
	case Ready:
		return "Ready"
	case Failed:
		return "Failed"
	case TornDown:
		return "TornDown"
	default:
		return "Unknown"
	}
}
