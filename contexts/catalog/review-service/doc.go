// Package reviewservice implements star ratings and comments on catalog
// books, plus the review queries used by the user dashboard and the
// moderation panel.
package reviewservice
