package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/frux-technologies/parcel/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/frux-technologies/parcel/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/frux-technologies/parcel/internal/version.Date={{.Date}}
)
