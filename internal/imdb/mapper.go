package imdb

import "github.com/jmfields/ratebadge/internal/domain"

// mapCandidates converts wire records to domain candidates. Records
// with no title at all are dropped; a missing rating object becomes a
// zero rating ("no usable rating"), never an error.
func mapCandidates(records []titleRecord) []domain.Candidate {
	candidates := make([]domain.Candidate, 0, len(records))
	for _, r := range records {
		title := displayTitle(r)
		if title == "" {
			continue
		}

		c := domain.Candidate{
			ID:    r.ID,
			Title: title,
			Type:  mapTitleType(r.Type),
		}
		if r.Rating != nil {
			c.Rating = r.Rating.AggregateRating
			c.Votes = r.Rating.VoteCount
		}
		candidates = append(candidates, c)
	}
	return candidates
}

// displayTitle prefers the primary title over the generic title field.
func displayTitle(r titleRecord) string {
	if r.PrimaryTitle != "" {
		return r.PrimaryTitle
	}
	return r.Title
}

// mapTitleType folds the catalog's type tags into the two types the
// matcher distinguishes. Unknown tags map to "" (no type).
func mapTitleType(t string) domain.MediaType {
	switch t {
	case "movie", "tvMovie", "video":
		return domain.MediaTypeMovie
	case "tvSeries", "tvMiniSeries", "series":
		return domain.MediaTypeSeries
	default:
		return ""
	}
}
