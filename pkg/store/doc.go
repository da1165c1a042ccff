// Package store persists the leaderboard: SQLite on native builds,
// localStorage in the browser.
package store
