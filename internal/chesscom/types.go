package chesscom

// Wire shapes of the public Chess.com REST API.

type archiveIndex struct {
	Archives []string `json:"archives"`
}

type apiPlayer struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Result   string `json:"result"`
}

type apiGame struct {
	UUID        string    `json:"uuid"`
	URL         string    `json:"url"`
	PGN         string    `json:"pgn"`
	TimeControl string    `json:"time_control"`
	EndTime     int64     `json:"end_time"`
	White       apiPlayer `json:"white"`
	Black       apiPlayer `json:"black"`
}

type archivePayload struct {
	Games []apiGame `json:"games"`
}
