package flows

// Deps groups flow dependency sets. The root manager builds this once and
// delegates operation methods to the matching flow implementation.
type Deps struct {
	Fetch   FetchDeps
	Save    SaveDeps
	Destroy DestroyDeps
	Refresh RefreshDeps
}
