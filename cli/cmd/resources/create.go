package resources

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/MLinh204/Class-Helper-Admin/cli/api"
	"github.com/MLinh204/Class-Helper-Admin/cli/cmd"
	"github.com/MLinh204/Class-Helper-Admin/cli/tui/models"
	"github.com/MLinh204/Class-Helper-Admin/pkg/logger"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// inputField is one create input. Required fields left empty on the command
// line are prompted for in TUI mode.
type inputField struct {
	flag     string
	title    string
	usage    string
	secret   bool
	optional bool
}

// inputs holds the collected values keyed by flag name.
type inputs map[string]string

type createSpec struct {
	desc   api.Descriptor
	fields []inputField
	// build turns inputs into the request body and a summary safe to print.
	build func(ctx context.Context, client *api.Client, in inputs, interactive bool) (any, map[string]any, error)
}

func newCreateCmd[T api.Record](spec createSpec) *cobra.Command {
	c := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a record in %s", strings.ToLower(spec.desc.Title)),
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireAuth: true}, cmd.ModeHandlers{
				JSON: createHandler[T](spec, false),
				TUI:  createHandler[T](spec, true),
			}, args)
		},
	}
	for _, f := range spec.fields {
		c.Flags().String(f.flag, "", f.usage)
	}
	return c
}

func createHandler[T api.Record](spec createSpec, interactive bool) cmd.HandlerFunc {
	return func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
		in := make(inputs, len(spec.fields))
		for _, f := range spec.fields {
			in[f.flag], _ = cobraCmd.Flags().GetString(f.flag)
		}
		if interactive {
			if err := promptMissing(ctx, spec.fields, in); err != nil {
				return err
			}
		}
		res, _, err := resourceFor[T](cobraCmd, executor, spec.desc)
		if err != nil {
			return err
		}
		body, summary, err := spec.build(ctx, executor.Client(), in, interactive)
		if err != nil {
			return err
		}
		if err := api.Validate(body); err != nil {
			return err
		}
		if err := res.Create(ctx, body); err != nil {
			return err
		}
		logger.FromContext(ctx).Info("record created", "collection", spec.desc.Name)
		summary["entity"] = spec.desc.Name
		summary["created"] = true
		return writeResult(cobraCmd, executor, summary, fmt.Sprintf("Created %s", strings.ToLower(spec.desc.Title)))
	}
}

// promptMissing opens one form with an input per empty required field.
func promptMissing(ctx context.Context, fields []inputField, in inputs) error {
	var prompts []huh.Field
	values := make(map[string]*string)
	for _, f := range fields {
		if f.optional || strings.TrimSpace(in[f.flag]) != "" {
			continue
		}
		v := new(string)
		values[f.flag] = v
		input := huh.NewInput().Title(f.title).Value(v)
		if f.secret {
			input = input.EchoMode(huh.EchoModePassword)
		}
		prompts = append(prompts, input)
	}
	if len(prompts) == 0 {
		return nil
	}
	if err := models.RunForm(ctx, huh.NewForm(huh.NewGroup(prompts...))); err != nil {
		return err
	}
	for flag, v := range values {
		in[flag] = *v
	}
	return nil
}

func invalidField(field, message string) error {
	return &api.ValidationError{Fields: map[string]string{field: message}}
}

func newUserCreateCmd() *cobra.Command {
	return newCreateCmd[api.User](createSpec{
		desc: api.Users,
		fields: []inputField{
			{flag: "username", title: "Username", usage: "Login name"},
			{flag: "password", title: "Password", usage: "Password, at least 6 characters", secret: true},
			{flag: "role", title: "Role", usage: "Role name or id (defaults to the first role)", optional: true},
		},
		build: func(ctx context.Context, client *api.Client, in inputs, interactive bool) (any, map[string]any, error) {
			role, err := pickRole(ctx, api.NewRoleDirectory(client), in["role"], interactive)
			if err != nil {
				return nil, nil, err
			}
			body := api.NewUser{Username: strings.TrimSpace(in["username"]), Password: in["password"], RoleID: int64(role.ID)}
			return body, map[string]any{"username": body.Username, "role": role.Name}, nil
		},
	})
}

// pickRole resolves --role, asks in TUI mode, and otherwise falls back to the
// first role like the dashboard form does.
func pickRole(ctx context.Context, roles *api.RoleDirectory, ref string, interactive bool) (api.Role, error) {
	if strings.TrimSpace(ref) != "" {
		return roles.Resolve(ctx, ref)
	}
	if !interactive {
		return roles.Default(ctx)
	}
	all, err := roles.All(ctx)
	if err != nil {
		return api.Role{}, err
	}
	if len(all) == 0 {
		return roles.Default(ctx)
	}
	options := make([]huh.Option[int], len(all))
	for i, r := range all {
		options[i] = huh.NewOption(r.Name, i)
	}
	var choice int
	form := huh.NewForm(huh.NewGroup(huh.NewSelect[int]().Title("Role").Options(options...).Value(&choice)))
	if err := models.RunForm(ctx, form); err != nil {
		return api.Role{}, err
	}
	return all[choice], nil
}

func newStudentCreateCmd() *cobra.Command {
	return newCreateCmd[api.Student](createSpec{
		desc: api.Students,
		fields: []inputField{
			{flag: "username", title: "Username", usage: "Login name"},
			{flag: "password", title: "Password", usage: "Password, at least 6 characters", secret: true},
			{flag: "full-name", title: "Full name", usage: "Student's full name"},
			{flag: "nickname", title: "Nickname", usage: "Name shown in class"},
			{flag: "age", title: "Age", usage: "Age in years"},
			{flag: "address", title: "Address", usage: "Home address"},
		},
		build: func(_ context.Context, _ *api.Client, in inputs, _ bool) (any, map[string]any, error) {
			age, err := strconv.Atoi(strings.TrimSpace(in["age"]))
			if err != nil && in["age"] != "" {
				return nil, nil, invalidField("age", "age must be a whole number")
			}
			body := api.NewStudent{
				Username:     strings.TrimSpace(in["username"]),
				Password:     in["password"],
				UserFullName: strings.TrimSpace(in["full-name"]),
				Nickname:     strings.TrimSpace(in["nickname"]),
				Age:          age,
				Address:      strings.TrimSpace(in["address"]),
			}
			return body, map[string]any{"username": body.Username, "nickname": body.Nickname}, nil
		},
	})
}

func newSalaryListCreateCmd() *cobra.Command {
	return newCreateCmd[api.SalaryList](createSpec{
		desc: api.SalaryLists,
		fields: []inputField{
			{flag: "title", title: "Title", usage: "List title", optional: true},
			{flag: "month-year", title: "Month (YYYY-MM)", usage: "Salary month, YYYY-MM"},
			{flag: "daily-rate", title: "Daily rate", usage: "Pay per working day"},
		},
		build: func(_ context.Context, _ *api.Client, in inputs, _ bool) (any, map[string]any, error) {
			var rate decimal.Decimal
			if raw := strings.TrimSpace(in["daily-rate"]); raw != "" {
				var err error
				if rate, err = decimal.NewFromString(raw); err != nil {
					return nil, nil, invalidField("dailyRate", "dailyRate must be a decimal number")
				}
			}
			body := api.NewSalaryList{
				Title:     strings.TrimSpace(in["title"]),
				MonthYear: strings.TrimSpace(in["month-year"]),
				DailyRate: rate,
			}
			return body, map[string]any{"monthYear": body.MonthYear, "dailyRate": rate.String()}, nil
		},
	})
}

func newVocabListCreateCmd() *cobra.Command {
	return newCreateCmd[api.VocabList](createSpec{
		desc: api.VocabLists,
		fields: []inputField{
			{flag: "title", title: "Title", usage: "List title"},
			{flag: "description", title: "Description", usage: "What the list covers"},
			{flag: "category", title: "Category", usage: "Category, e.g. animals"},
		},
		build: func(_ context.Context, _ *api.Client, in inputs, _ bool) (any, map[string]any, error) {
			body := api.NewVocabList{
				Title:       strings.TrimSpace(in["title"]),
				Description: strings.TrimSpace(in["description"]),
				Category:    strings.TrimSpace(in["category"]),
			}
			return body, map[string]any{"title": body.Title, "category": body.Category}, nil
		},
	})
}

func newVocabCreateCmd() *cobra.Command {
	return newCreateCmd[api.Vocab](createSpec{
		desc: api.Vocabs,
		fields: []inputField{
			{flag: "word", title: "Word", usage: "The word"},
			{flag: "translation", title: "Translation", usage: "Its translation"},
			{flag: "definition", usage: "Definition", optional: true},
			{flag: "part-of-speech", usage: "Part of speech", optional: true},
			{flag: "example", usage: "Example sentence", optional: true},
			{flag: "synonyms", usage: "Synonyms", optional: true},
			{flag: "antonyms", usage: "Antonyms", optional: true},
		},
		build: func(_ context.Context, _ *api.Client, in inputs, _ bool) (any, map[string]any, error) {
			body := api.NewVocab{
				Word:            strings.TrimSpace(in["word"]),
				Translation:     strings.TrimSpace(in["translation"]),
				Definition:      strings.TrimSpace(in["definition"]),
				PartOfSpeech:    strings.TrimSpace(in["part-of-speech"]),
				ExampleSentence: strings.TrimSpace(in["example"]),
				Synonyms:        strings.TrimSpace(in["synonyms"]),
				Antonyms:        strings.TrimSpace(in["antonyms"]),
			}
			return body, map[string]any{"word": body.Word}, nil
		},
	})
}
