// Package api provides the Kalshi trade API v2 REST client.
//
// REST endpoints:
//   - Production: https://api.elections.kalshi.com/trade-api/v2
//   - Demo: https://demo-api.kalshi.co/trade-api/v2
//
// Requests are signed with RSA-PSS when credentials are configured. Only the
// event listing is used: open events with their markets nested inline.
package api
