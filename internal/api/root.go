package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const rootPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Northstar</title>
  <style>
    body { font-family: -apple-system, sans-serif; max-width: 40rem; margin: 4rem auto; padding: 0 1rem; color: #1a1a1a; }
    h1 { font-size: 1.6rem; }
    code { background: #f2f2f2; padding: 0.1rem 0.3rem; border-radius: 3px; }
  </style>
</head>
<body>
  <h1>Northstar</h1>
  <p>Set objectives. Build rituals. Track what matters.</p>
  <p>This is the API server; point a client at <code>/objectives</code>, <code>/tasks</code>, <code>/metrics</code> and <code>/rituals</code>.</p>
</body>
</html>
`

// RootPage serves the landing shell.
func RootPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(rootPage))
	}
}
