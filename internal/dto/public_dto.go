package dto

// PublicDigestSummary is a published digest as listed on team and discover pages.
type PublicDigestSummary struct {
	DigestResponse
	Team      *TeamResponse  `json:"team,omitempty"`
	Bookmarks []LinkResponse `json:"bookmarks"`
}

type PublicTeamResponse struct {
	Team    TeamResponse          `json:"team"`
	Digests []PublicDigestSummary `json:"digests"`
}

type PublicDigestResponse struct {
	Team   TeamResponse   `json:"team"`
	Digest DigestResponse `json:"digest"`
}

type DiscoverRequest struct {
	PageQuery
	TeamId string `query:"teamId"`
}

type DiscoverResponse struct {
	Items      []PublicDigestSummary `json:"items"`
	Pagination Pagination            `json:"pagination"`
}
