package api

// Device is a hardware asset known to the platform inventory.
type Device struct {
	Serial     string `json:"serial"`
	Name       string `json:"name"`
	Model      string `json:"model"`
	Managed    bool   `json:"managed"`
	Disabled   bool   `json:"disabled"`
	ServiceID  string `json:"service_id,omitempty"`
	LocationID string `json:"location_id,omitempty"`
}

// Service lifecycle states reported by the platform.
const (
	ServiceStateProvisioning = "PROVISIONING"
	ServiceStateProvisioned  = "PROVISIONED"
	ServiceStateFailed       = "PROVISION_FAILED"
)

// Service is a platform service instance provisioned into a region.
type Service struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Region   string `json:"region"`
	State    string `json:"state"`
	Endpoint string `json:"endpoint,omitempty"`
}

// Location is a physical site devices can be assigned to.
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Credential is an issued API client credential. Secret is only populated
// in the creation response.
type Credential struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ServiceID string `json:"service_id"`
	Secret    string `json:"secret,omitempty"`
}

// Webhook is a registered event delivery target.
type Webhook struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	URL    string   `json:"url"`
	Events []string `json:"events,omitempty"`
}
