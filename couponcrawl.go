// Package couponcrawl crawls a paginated course-listing site, follows each
// course card to its detail page, and persists the coupon links it finds.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, mysql/, goquery/).
package couponcrawl
