package imdb

// searchResponse is the wire shape of the title search endpoint.
type searchResponse struct {
	Titles []titleRecord `json:"titles"`
}

// titleRecord is one candidate row. Rating is absent for titles that
// have not accumulated votes yet.
type titleRecord struct {
	ID            string        `json:"id"`
	PrimaryTitle  string        `json:"primaryTitle"`
	OriginalTitle string        `json:"originalTitle"`
	Title         string        `json:"title"`
	Type          string        `json:"type"`
	Rating        *ratingRecord `json:"rating"`
}

type ratingRecord struct {
	AggregateRating float64 `json:"aggregateRating"`
	VoteCount       int64   `json:"voteCount"`
}
