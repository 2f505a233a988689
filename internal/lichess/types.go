package lichess

// Wire shapes of the Lichess ndjson game export.

type apiUser struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type apiPlayer struct {
	User   *apiUser `json:"user"`
	Rating int      `json:"rating"`
}

type apiClock struct {
	Initial   int `json:"initial"`
	Increment int `json:"increment"`
}

type apiPlayers struct {
	White apiPlayer `json:"white"`
	Black apiPlayer `json:"black"`
}

type apiGame struct {
	ID        string      `json:"id"`
	PGN       string      `json:"pgn"`
	Winner    string      `json:"winner"`
	Status    string      `json:"status"`
	Moves     string      `json:"moves"`
	CreatedAt int64       `json:"createdAt"`
	Clock     *apiClock   `json:"clock"`
	Players   *apiPlayers `json:"players"`
}
