package cmd

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"myges/internal/api"
	"myges/internal/cli"
	"myges/internal/report"
)

func newProjectsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Browse your projects and manage project groups",
		Long: `Browse your projects and manage project groups.

Commands taking a project id ask for a year and a project when the id is
omitted.`,
	}

	cmd.AddCommand(
		newProjectsListCmd(opts),
		newProjectsShowCmd(opts),
		newProjectsGroupsCmd(opts),
		newProjectsStepsCmd(opts),
		newProjectsJoinCmd(opts),
		newProjectsQuitCmd(opts),
		newProjectsChatCmd(opts),
	)
	return cmd
}

func newProjectsListCmd(opts *rootOptions) *cobra.Command {
	var output cli.OutputFlags

	cmd := &cobra.Command{
		Use:     "ls [year]",
		Aliases: []string{"list"},
		Short:   "List the projects of a school year",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error { return output.Validate() },
		RunE: runSession(opts, func(s *session, args []string) error {
			year, err := s.year(args)
			if err != nil {
				return err
			}

			var projects []api.Project
			err = s.fetch("Loading projects...", func(ctx context.Context) (err error) {
				projects, err = s.client.Projects(ctx, year)
				return err
			})
			if err != nil {
				return err
			}

			out := s.output(output)
			if out.Structured() {
				return out.Data(projects)
			}

			profile, err := s.profile()
			if err != nil {
				return err
			}
			return out.Table(report.Projects(projects, profile.UID, location))
		}),
	}

	cli.RegisterOutputFlags(cmd, &output)
	return cmd
}

func newProjectsShowCmd(opts *rootOptions) *cobra.Command {
	var (
		output cli.OutputFlags
		year   string
	)

	cmd := &cobra.Command{
		Use:     "show [id]",
		Short:   "Show a project",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error { return output.Validate() },
		RunE: runSession(opts, func(s *session, args []string) error {
			project, err := s.project(args, year)
			if err != nil {
				return err
			}

			out := s.output(output)
			if out.Structured() {
				return out.Data(project)
			}

			profile, err := s.profile()
			if err != nil {
				return err
			}
			return out.KeyValue(report.ProjectDetails(project, profile.UID, location))
		}),
	}

	cli.RegisterOutputFlags(cmd, &output)
	registerYearFlag(cmd, &year)
	return cmd
}

func newProjectsGroupsCmd(opts *rootOptions) *cobra.Command {
	var (
		output cli.OutputFlags
		year   string
	)

	cmd := &cobra.Command{
		Use:     "groups [id]",
		Short:   "List the groups of a project with their students",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error { return output.Validate() },
		RunE: runSession(opts, func(s *session, args []string) error {
			project, err := s.project(args, year)
			if err != nil {
				return err
			}

			out := s.output(output)
			if out.Structured() {
				return out.Data(project.Groups)
			}
			return out.Table(report.ProjectGroups(sortedGroups(project)))
		}),
	}

	cli.RegisterOutputFlags(cmd, &output)
	registerYearFlag(cmd, &year)
	return cmd
}

func newProjectsStepsCmd(opts *rootOptions) *cobra.Command {
	var (
		output   cli.OutputFlags
		year     string
		all      bool
		upcoming bool
	)

	cmd := &cobra.Command{
		Use:   "steps [id]",
		Short: "Show the steps of a project",
		Long: `Show the steps of a project.

With --all, the next steps of every project are listed instead. With
--next, steps whose limit date is past are left out.`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error { return output.Validate() },
		RunE: runSession(opts, func(s *session, args []string) error {
			out := s.output(output)

			if all {
				var steps []api.NextStep
				err := s.fetch("Loading next steps...", func(ctx context.Context) (err error) {
					steps, err = s.client.NextProjectSteps(ctx)
					return err
				})
				if err != nil {
					return err
				}
				if out.Structured() {
					return out.Data(steps)
				}
				return out.Table(report.NextSteps(steps, location))
			}

			project, err := s.project(args, year)
			if err != nil {
				return err
			}
			if out.Structured() {
				return out.Data(project.Steps)
			}
			return out.Tables(report.ProjectSteps(project, upcoming, now(), location))
		}),
	}

	cli.RegisterOutputFlags(cmd, &output)
	registerYearFlag(cmd, &year)
	cmd.Flags().BoolVarP(&all, "all", "a", false, "List the next steps of every project")
	cmd.Flags().BoolVarP(&upcoming, "next", "n", false, "Only show steps that are not past")
	cmd.MarkFlagsMutuallyExclusive("all", "next")
	return cmd
}

func newProjectsJoinCmd(opts *rootOptions) *cobra.Command {
	var year string

	cmd := &cobra.Command{
		Use:   "join [id] [group]",
		Short: "Join a project group",
		Long: `Join a project group.

The group is either its position in "myges projects groups" (starting at
1) or its id. Without a group, the groups are listed and you are asked to
pick one.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runSession(opts, func(s *session, args []string) error {
			project, err := s.project(args, year)
			if err != nil {
				return err
			}

			profile, err := s.profile()
			if err != nil {
				return err
			}
			if g := project.UserGroup(profile.UID); g != nil {
				fmt.Fprintf(s.cmd.OutOrStdout(), "You already are in a group for this project (%s).\n", g.GroupName)
				return nil
			}

			group, err := s.chooseGroup(project, args)
			if err != nil {
				return err
			}

			err = s.fetch("Joining group...", func(ctx context.Context) error {
				return s.client.JoinProjectGroup(ctx, project.RCID, project.ProjectID, group.ProjectGroupID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(s.cmd.OutOrStdout(), "Successfully joined the group!")
			return nil
		}),
	}

	registerYearFlag(cmd, &year)
	return cmd
}

func newProjectsQuitCmd(opts *rootOptions) *cobra.Command {
	var (
		year string
		yes  bool
	)

	cmd := &cobra.Command{
		Use:   "quit [id]",
		Short: "Quit your group of a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: runSession(opts, func(s *session, args []string) error {
			project, err := s.project(args, year)
			if err != nil {
				return err
			}

			profile, err := s.profile()
			if err != nil {
				return err
			}
			group := project.UserGroup(profile.UID)
			if group == nil {
				fmt.Fprintln(s.cmd.OutOrStdout(), "You are not actually in a group.")
				return nil
			}

			if !yes {
				p, err := s.prompt()
				if err != nil {
					return err
				}
				ok, err := p.Confirm(fmt.Sprintf("Do you really want to quit %s?", group.GroupName), false)
				if err != nil || !ok {
					return err
				}
			}

			err = s.fetch("Quitting group...", func(ctx context.Context) error {
				return s.client.QuitProjectGroup(ctx, project.RCID, project.ProjectID, group.ProjectGroupID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(s.cmd.OutOrStdout(), "Successfully quitted the group!")
			return nil
		}),
	}

	registerYearFlag(cmd, &year)
	cmd.Flags().BoolVar(&yes, "yes", false, "Do not ask for confirmation")
	return cmd
}

func registerYearFlag(cmd *cobra.Command, year *string) {
	cmd.Flags().StringVarP(year, "year", "y", "", "School year used to pick the project when no id is given")
}

// project fetches the project whose id is the first argument, or asks for
// a year (unless given) and a project of that year.
func (s *session) project(args []string, year string) (*api.Project, error) {
	id, err := s.projectID(args, year)
	if err != nil {
		return nil, err
	}

	var project *api.Project
	err = s.fetch("Loading project...", func(ctx context.Context) (err error) {
		project, err = s.client.Project(ctx, id)
		if api.IsNotFound(err) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project %d not found", id)
	}
	return project, nil
}

func (s *session) projectID(args []string, year string) (int64, error) {
	if len(args) > 0 && args[0] != "" {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid project id %q", args[0])
		}
		return id, nil
	}

	var yearArgs []string
	if year != "" {
		yearArgs = []string{year}
	}
	y, err := s.year(yearArgs)
	if err != nil {
		return 0, err
	}

	var projects []api.Project
	err = s.fetch("Loading projects...", func(ctx context.Context) (err error) {
		projects, err = s.client.Projects(ctx, y)
		return err
	})
	if err != nil {
		return 0, err
	}
	if len(projects) == 0 {
		return 0, fmt.Errorf("no projects found for year %d", y)
	}

	labels := make([]string, len(projects))
	for i, p := range projects {
		labels[i] = p.Name
	}

	p, err := s.prompt()
	if err != nil {
		return 0, err
	}
	i, err := p.Select("Choose a project", labels, 0)
	if err != nil {
		return 0, err
	}
	return projects[i].ProjectID, nil
}

var errGroupNotFound = errors.New("chosen group not found")

// chooseGroup picks a group of project from the second argument or by
// asking. A number up to the group count is a position, any other number a
// group id.
func (s *session) chooseGroup(project *api.Project, args []string) (*api.ProjectGroup, error) {
	sorted := sortedGroups(project)
	if len(sorted.Groups) == 0 {
		return nil, errGroupNotFound
	}

	if len(args) > 1 {
		n, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid group %q", args[1])
		}
		return findGroup(sorted.Groups, n)
	}

	p, err := s.prompt()
	if err != nil {
		return nil, err
	}
	i, err := p.Select("Choose a group", report.GroupChoices(sorted), 0)
	if err != nil {
		return nil, err
	}
	return &sorted.Groups[i], nil
}

// findGroup resolves a position (1-based) or a group id among groups.
func findGroup(groups []api.ProjectGroup, n int64) (*api.ProjectGroup, error) {
	if n >= 1 && n <= int64(len(groups)) {
		return &groups[n-1], nil
	}
	if n > int64(len(groups)) {
		for i := range groups {
			if groups[i].ProjectGroupID == n {
				return &groups[i], nil
			}
		}
	}
	return nil, errGroupNotFound
}

// sortedGroups returns a copy of project with its groups ordered by id.
func sortedGroups(project *api.Project) *api.Project {
	sorted := *project
	sorted.Groups = slices.Clone(project.Groups)
	slices.SortStableFunc(sorted.Groups, func(a, b api.ProjectGroup) int {
		return cmp.Compare(a.ProjectGroupID, b.ProjectGroupID)
	})
	return &sorted
}
