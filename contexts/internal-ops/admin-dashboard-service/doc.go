// Package admindashboardservice implements the moderation panel: aggregate
// usage statistics, user ban/unban, and review deletion.
//
// Every operation here is admin-gated at the HTTP edge; the service itself
// only enforces the one domain rule the gate cannot express, that an admin
// account can never be banned.
package admindashboardservice
