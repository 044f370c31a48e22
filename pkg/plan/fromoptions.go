package plan

// NeedsCreateDB reports whether the requested database has to be created.
// "postgres" and "template1" exist in every fresh cluster, so asking for them
// suppresses the db-creation step.
func NeedsCreateDB(opts ConnectionOptions) bool {
	db, ok := opts.DBName.Get()
	return ok && db != "postgres" && db != "template1"
}

// WithOptions folds client connection options into a generated plan, so a
// caller starting from "I already have connection parameters" gets a
// consistent plan. Database name, user, and password translate into the
// matching initializer and db-creation arguments and environment entries.
//
// The translation targets the base (generated) layer on purpose: a set
// sub-config in a caller's override replaces the whole sub-config, so
// option-derived tweaks must land before the caller's layer merges on top.
func (p Plan) WithOptions(opts ConnectionOptions) Plan {
	out := p
	out.Postgres.Options = p.Postgres.Options.Combine(opts)

	if db, ok := opts.DBName.Get(); ok && NeedsCreateDB(opts) && out.CreateDB != nil {
		c := out.CreateDB.Combine(ProcessConfig{
			Args: Args{IndexBased: map[int]string{0: db}},
		})
		out.CreateDB = &c
	}

	if user, ok := opts.User.Get(); ok {
		if out.InitDB != nil {
			c := out.InitDB.Combine(ProcessConfig{
				Args: Args{KeyBased: KeyArgs(map[string]string{"--username=": user})},
			})
			out.InitDB = &c
		}
		if out.CreateDB != nil {
			c := out.CreateDB.Combine(ProcessConfig{
				Args: Args{KeyBased: KeyArgs(map[string]string{"-U ": user})},
			})
			out.CreateDB = &c
		}
	}

	if pw, ok := opts.Password.Get(); ok && out.CreateDB != nil {
		c := out.CreateDB.Combine(ProcessConfig{
			Environment: EnvVars{Specific: map[string]string{"PGPASSWORD": pw}},
		})
		out.CreateDB = &c
	}

	return out
}

// FromOptions lifts connection options into a plan layer suitable for
// merging as a caller override. Only the mergeable server options ride the
// layer; sub-config translation happens in WithOptions on the generated side.
func FromOptions(opts ConnectionOptions) Plan {
	return Plan{Postgres: PostgresPlan{Options: opts}}
}
