// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file names the tables created by the migrations.
package constants

// Table Names define the names of database tables used in the application.
const (
	// TableUsers stores user profiles and their role.
	TableUsers = "users"

	// TableCollections stores collections of cards. The root collection has no row.
	TableCollections = "collections"

	// TableCollectionPermissions maps a role to an access level per collection.
	TableCollectionPermissions = "collection_permissions"

	// TableCards stores saved questions and models.
	TableCards = "cards"

	// TableModerationReviews stores verification records attached to cards.
	TableModerationReviews = "moderation_reviews"

	// TableDataTables stores metadata of warehouse tables shown in popovers.
	TableDataTables = "data_tables"

	// TableTimelines stores named groups of events per collection.
	TableTimelines = "timelines"

	// TableTimelineEvents stores dated annotation events.
	TableTimelineEvents = "timeline_events"
)
