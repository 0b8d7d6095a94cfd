package capture

// FocusedApp reports the name of the frontmost application, used to tag
// captures with their source and to honor the exclusion list. There is no
// portable way to ask for this, so the default reports Unknown; platform
// builds may swap in a real implementation.
var FocusedApp = func() string {
	return "Unknown"
}
