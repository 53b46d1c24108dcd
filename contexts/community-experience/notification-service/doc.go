// Package notificationservice composes and dispatches the
// "contact the submitter" email on behalf of another user.
//
// Delivery itself is opaque behind the Mailer port: sendgrid in production,
// a recording fake in tests. A failed send is logged and reported to the
// caller; it is never retried.
package notificationservice
