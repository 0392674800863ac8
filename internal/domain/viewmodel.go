package domain

import "fmt"

// ProfileViewModel is the result of a profile lookup handed to the rendering layer.
// It is either NotFound or Found.
type ProfileViewModel interface {
	// Title returns the page title for the given site name.
	Title(siteName string) string

	isProfileViewModel()
}

// NotFound is returned when the source-control platform has no record for the handle.
type NotFound struct {
	RequestedHandle string
}

// Title implements ProfileViewModel.
func (n NotFound) Title(siteName string) string {
	return fmt.Sprintf("@%s - %s", n.RequestedHandle, siteName)
}

func (NotFound) isProfileViewModel() {}

// Found is a resolved profile. Internal is nil when the handle has no platform account.
type Found struct {
	RequestedHandle    string
	External           ExternalProfile
	Internal           *InternalProfile
	FormattedViewCount string
	Badges             []Badge
}

// Title implements ProfileViewModel.
func (f Found) Title(siteName string) string {
	return fmt.Sprintf("%s | %s's profile", siteName, f.RequestedHandle)
}

func (Found) isProfileViewModel() {}
