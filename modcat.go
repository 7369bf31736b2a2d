// Package modcat builds a searchable catalog of game modpack add-ons ("mods")
// from a single wiki page. It fetches the page, infers which headings and
// tables carry mod data, extracts and deduplicates candidate records, and
// reconciles them against a persistent record store.
//
// This package contains domain types, interfaces and the pure pipeline
// stages. Implementations live in subdirectories named after their primary
// dependency (e.g., sqlite/, goquery/, http/).
package modcat
