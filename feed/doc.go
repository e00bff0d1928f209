// Package feed keeps a paginated list of discoverable profiles in sync
// with the discover API.
//
// An Engine composes four parts:
//
//   - Pager tracks the page being fetched and whether more pages exist.
//   - Filter holds the active interest filter; a change resets paging.
//   - Reconciler attaches follow status to fetched profiles and applies
//     optimistic follow/unfollow marks to the accumulated list.
//   - Trigger turns viewport visibility events on the last rendered
//     profile into page advances.
//
// All state is owned by the goroutine running Engine.Run. Commands and
// fetch completions are delivered to it over a channel, so no lock guards
// the accumulated list. Readers get immutable copies through Snapshot and
// Changes.
//
// Every fetch carries the filter generation and page it was issued for.
// A completion that arrives after a filter reset is dropped, so an old
// page can never overwrite a newer result.
package feed
