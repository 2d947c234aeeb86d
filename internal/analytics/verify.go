package analytics

import "context"

// VerifyTrackingInstallation reports whether the site has ever ingested an
// event. A store failure returns false rather than an error: "no data yet"
// and "cannot verify right now" lead the dashboard owner to the same next
// step, so they are collapsed into one signal. This is the only operation
// allowed to swallow a dependency failure.
func (s *Service) VerifyTrackingInstallation(ctx context.Context, siteID string) bool {
	n, err := s.repo.CountEvents(ctx, siteID)
	if err != nil {
		return false
	}
	return n > 0
}
