package chat_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/aussiebroadwan/tabchat/api/chat"
)

type document struct {
	Info struct {
		Title string `json:"title"`
	} `json:"info"`
	Paths map[string]map[string]struct {
		Responses map[string]json.RawMessage `json:"responses"`
	} `json:"paths"`
}

func readDocument(t *testing.T) document {
	t.Helper()

	raw, err := swag.ReadDoc(chat.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestDocument_IsRegisteredAndValidJSON(t *testing.T) {
	doc := readDocument(t)
	require.Equal(t, "TabChat API", doc.Info.Title)

	for _, path := range []string{
		"/v1/auth/register",
		"/v1/auth/login",
		"/v1/invites",
		"/v1/invites/{code}",
		"/v1/invites/{code}/revoke",
		"/v1/invites/tree",
		"/v1/admin/bootstrap",
	} {
		require.Contains(t, doc.Paths, path)
	}
}

func TestDocument_RevokeHasNoExpiredResponse(t *testing.T) {
	doc := readDocument(t)

	revoke := doc.Paths["/v1/invites/{code}/revoke"]["post"]
	require.Contains(t, revoke.Responses, "204")
	require.Contains(t, revoke.Responses, "409")
	require.NotContains(t, revoke.Responses, "410")
}
