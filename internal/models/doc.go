// Package models defines the cached domain entities for the Outly client.
//
// # Entities
//
//   - Identity: the authenticated user's account plus session token (at most one row)
//   - Event: a discoverable event with location, organizer, and ticket types
//   - Outing: a group outing linking participants, expense activities, and debts
//   - Activity: a single expense split equally among its participants
//   - Debt: a server-computed obligation between two users
//   - Notification: an in-app notification with an optional read marker
//
// # Design Principles
//
// 1. **Cache, not source of truth**: every entity except Identity mirrors the
// remote collection as of the last successful fetch. Entities are wholesale
// replaced per fetch cycle, never partially patched from a later response.
//
// 2. **Derived values stay derived**: available ticket quantity, per-head
// activity shares, and the read flag are methods, not stored columns.
//
// 3. **Avoid circular references**: relationships use ID strings, not pointers.
//
// 4. **Wire-independent**: these types carry no JSON tags. The wire shapes live
// in the api package; conversion happens once per fetch in the sync package.
package models
