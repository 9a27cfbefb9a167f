// pkg/registry/schema.go
package registry

type ActivityRegistry struct {
	Version    string     `json:"version"`
	Activities []Activity `json:"activities"`
}

// Activity describes one Zeebe task type served by the worker manager.
type Activity struct {
	ID          string            `json:"id"`
	DisplayName string            `json:"displayName"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	TaskType    string            `json:"taskType"`
	Input       map[string]string `json:"input"`
	Output      map[string]string `json:"output"`
	ErrorCodes  []string          `json:"errorCodes"`
	Timeout     string            `json:"timeout"`
	Tags        []string          `json:"tags,omitempty"`
}
