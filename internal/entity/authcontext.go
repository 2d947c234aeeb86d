package entity

// Principal is the authenticated user for the current request. It lives for
// one action invocation and is never persisted by this layer.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// AuthContext proves a principal's verified access to exactly one site. It is
// built by the auth gate after the ownership check and scopes every
// downstream analytics query; handlers and services never assemble one.
type AuthContext struct {
	DashboardID string `json:"dashboardId"`
	UserID      string `json:"userId"`
	SiteID      string `json:"siteId"`
	Role        string `json:"role"`
}

var AuthContextSchema = MustCompile("AuthContext", `{
  "type": "object",
  "required": ["dashboardId", "userId", "siteId", "role"],
  "properties": {
    "dashboardId": {"type": "string", "minLength": 1},
    "userId":      {"type": "string", "minLength": 1},
    "siteId":      {"type": "string", "minLength": 1},
    "role":        {"type": "string", "minLength": 1}
  }
}`)
