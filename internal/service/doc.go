// Package service implements the transactional operations of the Spout
// membership-and-content layer: profile/identity linking, group lifecycle
// with admin/ban/membership sets, and threaded topic/post content.
//
// Each service validates that referenced entities exist, checks
// authorization through a single authorizer (existence before
// authorization, so NOT_FOUND always wins over UNAUTHORIZED), performs the
// mutation via the store - multi-row writes are store transactions - and
// returns plain entity values or a typed *Error.
//
// Services hold no mutable state beyond the store handle; every operation
// re-reads what it needs. Read-then-insert sequences are not locked against
// concurrent deletes - the store's foreign keys are the backstop, and a
// lost race surfaces as an INFRA failure.
package service
