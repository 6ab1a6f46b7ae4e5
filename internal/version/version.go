// ABOUTME: Version constants for the studyhall client
// ABOUTME: Identifies the product in logs and outgoing requests
package version

const (
	// Version is the client software version.
	Version = "0.1.0"

	// Product is the product name announced to the community service.
	Product = "StudyHall Terminal Client"

	// Manufacturer identifies the project.
	Manufacturer = "StudyHall"
)
