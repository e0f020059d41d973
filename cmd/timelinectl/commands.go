package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/auth"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/repository"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/service"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
	"github.com/yasinhessnawi1/Annotate_Backend/migrations"
	"github.com/yasinhessnawi1/Annotate_Backend/scripts"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and seed root collection permissions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := migrations.NewMigrator(env.pool).RunMigrations(rootCtx); err != nil {
			return err
		}
		if err := scripts.NewSeeder(env.pool).SeedDatabase(rootCtx); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return err
	},
}

var timelinesFlags struct {
	collection string
	archived   bool
}

var timelinesCmd = &cobra.Command{
	Use:   "timelines",
	Short: "List the timelines of a collection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		collectionID, err := parseCollection(timelinesFlags.collection)
		if err != nil {
			return err
		}
		timelines, err := repository.NewTimelineRepository(env.pool).ListByCollection(rootCtx, collectionID, timelinesFlags.archived)
		if err != nil {
			return err
		}
		return writeTimelines(cmd.OutOrStdout(), timelines)
	},
}

var eventsFlags struct {
	timelines []int64
	archived  bool
	start     string
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the events of one or more timelines",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if len(eventsFlags.timelines) == 0 {
			return fmt.Errorf("at least one --timeline is required")
		}
		filter := repository.EventFilter{Archived: eventsFlags.archived}
		if eventsFlags.start != "" {
			start, err := time.Parse(time.DateOnly, eventsFlags.start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			filter.Start = &start
		}
		events, err := repository.NewTimelineEventRepository(env.pool).ListByTimelines(rootCtx, eventsFlags.timelines, filter)
		if err != nil {
			return err
		}
		return writeEvents(cmd.OutOrStdout(), events)
	},
}

var tableFlags struct {
	id          int64
	name        string
	displayName string
	schema      string
	description string
	fields      int
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Inspect or update table metadata shown in popovers",
}

var tableSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or replace the metadata of a table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		table := &models.DataTable{
			ID:          tableFlags.id,
			Name:        tableFlags.name,
			DisplayName: tableFlags.displayName,
			FieldCount:  tableFlags.fields,
		}
		if table.DisplayName == "" {
			table.DisplayName = table.Name
		}
		if tableFlags.schema != "" {
			table.SchemaName = &tableFlags.schema
		}
		if cmd.Flags().Changed("description") {
			table.Description = &tableFlags.description
		}

		tables, err := service.NewTableService(repository.NewDataTableRepository(env.pool), env.cfg.Popover)
		if err != nil {
			return err
		}
		if err := tables.Save(rootCtx, table); err != nil {
			return err
		}
		return writePopover(cmd.OutOrStdout(), tables, table.ID)
	},
}

var tablePopoverCmd = &cobra.Command{
	Use:   "popover",
	Short: "Show the popover decision for a table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tables, err := service.NewTableService(repository.NewDataTableRepository(env.pool), env.cfg.Popover)
		if err != nil {
			return err
		}
		return writePopover(cmd.OutOrStdout(), tables, tableFlags.id)
	},
}

var usersFlags struct {
	email     string
	firstName string
	lastName  string
	role      string
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	RunE: func(cmd *cobra.Command, _ []string) error {
		users, err := repository.NewUserRepository(env.pool).List(rootCtx)
		if err != nil {
			return err
		}
		return writeUsers(cmd.OutOrStdout(), users)
	},
}

var usersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		user := &models.User{Email: usersFlags.email, Role: usersFlags.role}
		if usersFlags.firstName != "" {
			user.FirstName = &usersFlags.firstName
		}
		if usersFlags.lastName != "" {
			user.LastName = &usersFlags.lastName
		}
		input := struct {
			Email string `validate:"required,email"`
			Role  string `validate:"required,oneof=admin editor readonly"`
		}{user.Email, user.Role}
		if err := utils.ValidateStruct(input); err != nil {
			return err
		}
		if err := repository.NewUserRepository(env.pool).Create(rootCtx, user); err != nil {
			return err
		}
		return writeUsers(cmd.OutOrStdout(), []*models.User{user})
	},
}

var grantFlags struct {
	role       string
	collection string
	access     string
}

var grantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Grant a role an access level on a collection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		collectionID, err := parseCollection(grantFlags.collection)
		if err != nil {
			return err
		}
		input := struct {
			Role   string `validate:"required,oneof=admin editor readonly"`
			Access string `validate:"required,oneof=write read none"`
		}{grantFlags.role, grantFlags.access}
		if err := utils.ValidateStruct(input); err != nil {
			return err
		}
		perm := &models.CollectionPermission{
			Role:         grantFlags.role,
			CollectionID: collectionID,
			AccessLevel:  grantFlags.access,
		}
		if err := repository.NewCollectionRepository(env.pool).SetAccessLevel(rootCtx, perm); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s now has %s access to collection %s\n",
			perm.Role, perm.AccessLevel, collectionLabel(perm.CollectionID))
		return err
	},
}

var tokenFlags struct {
	userID int64
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token for a user (development only)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if env.cfg.App.IsProduction() {
			return fmt.Errorf("refusing to issue tokens in production")
		}
		user, err := repository.NewUserRepository(env.pool).GetByID(rootCtx, tokenFlags.userID)
		if err != nil {
			return err
		}
		token, jwtID, err := auth.NewJWTService(&env.cfg.JWT).GenerateAccessToken(user.ID, user.Email, user.Role)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n# jti %s, expires in %s\n", token, jwtID, env.cfg.JWT.Expiry)
		return err
	},
}

func init() {
	timelinesCmd.Flags().StringVar(&timelinesFlags.collection, "collection", "root", "collection id or root")
	timelinesCmd.Flags().BoolVar(&timelinesFlags.archived, "archived", false, "include archived timelines")

	eventsCmd.Flags().Int64SliceVar(&eventsFlags.timelines, "timeline", nil, "timeline id (repeatable)")
	eventsCmd.Flags().BoolVar(&eventsFlags.archived, "archived", false, "list archived events instead of active ones")
	eventsCmd.Flags().StringVar(&eventsFlags.start, "start", "", "drop events before this date (YYYY-MM-DD)")

	tableSetCmd.Flags().Int64Var(&tableFlags.id, "id", 0, "table id")
	tableSetCmd.Flags().StringVar(&tableFlags.name, "name", "", "physical table name")
	tableSetCmd.Flags().StringVar(&tableFlags.displayName, "display-name", "", "display name (defaults to name)")
	tableSetCmd.Flags().StringVar(&tableFlags.schema, "schema", "", "schema name")
	tableSetCmd.Flags().StringVar(&tableFlags.description, "description", "", "description shown in the popover")
	tableSetCmd.Flags().IntVar(&tableFlags.fields, "fields", 0, "number of fields")
	_ = tableSetCmd.MarkFlagRequired("id")
	_ = tableSetCmd.MarkFlagRequired("name")
	tablePopoverCmd.Flags().Int64Var(&tableFlags.id, "id", 0, "table id")
	_ = tablePopoverCmd.MarkFlagRequired("id")
	tableCmd.AddCommand(tableSetCmd, tablePopoverCmd)

	usersAddCmd.Flags().StringVar(&usersFlags.email, "email", "", "email address")
	usersAddCmd.Flags().StringVar(&usersFlags.firstName, "first-name", "", "first name")
	usersAddCmd.Flags().StringVar(&usersFlags.lastName, "last-name", "", "last name")
	usersAddCmd.Flags().StringVar(&usersFlags.role, "role", "readonly", "admin, editor or readonly")
	usersCmd.AddCommand(usersAddCmd)

	grantCmd.Flags().StringVar(&grantFlags.role, "role", "", "role to grant")
	grantCmd.Flags().StringVar(&grantFlags.collection, "collection", "root", "collection id or root")
	grantCmd.Flags().StringVar(&grantFlags.access, "access", "", "write, read or none")
	_ = grantCmd.MarkFlagRequired("role")
	_ = grantCmd.MarkFlagRequired("access")

	tokenCmd.Flags().Int64Var(&tokenFlags.userID, "user", 0, "user id")
	_ = tokenCmd.MarkFlagRequired("user")
}
