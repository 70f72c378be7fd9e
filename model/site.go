package model

// SiteConfig carries the instance-wide flags the visibility rules read.
type SiteConfig struct {
	Name string
	// ContentWarning gates NSFW content in listings. Without it, NSFW items
	// are hidden from every listing regardless of viewer preference.
	// Single-item reads only consult the viewer preference.
	ContentWarning bool
}
