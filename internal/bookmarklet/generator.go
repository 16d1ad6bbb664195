package bookmarklet

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	endpointPlaceholder  = "$__endpoint__"
	projectIDPlaceholder = "$__projectId__"
	newWindowPlaceholder = "$__newWindow__"
)

//go:embed template.js
var source string

// Generate returns a javascript: URL that sends the current page to
// endpoint. An empty projectID leaves the project choice to the server.
func Generate(endpoint, projectID string, newWindow bool) (string, error) {
	encodedEndpoint, err := json.Marshal(endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to encode endpoint: %w", err)
	}

	encodedProject := []byte("null")
	if projectID != "" {
		encodedProject, err = json.Marshal(projectID)
		if err != nil {
			return "", fmt.Errorf("failed to encode project id: %w", err)
		}
	}

	encodedNewWindow, err := json.Marshal(newWindow)
	if err != nil {
		return "", fmt.Errorf("failed to encode new window flag: %w", err)
	}

	replacer := strings.NewReplacer(
		endpointPlaceholder, string(encodedEndpoint),
		projectIDPlaceholder, string(encodedProject),
		newWindowPlaceholder, string(encodedNewWindow),
	)

	return "javascript:" + replacer.Replace(strings.TrimSpace(source)), nil
}
