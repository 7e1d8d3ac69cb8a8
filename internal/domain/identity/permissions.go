package identity

// Permission constants. Each handler route binds exactly one of these; role
// checks never happen deeper in the business logic.
const (
	PermRosterRead       = "levelup.roster.read"
	PermRosterReadAll    = "levelup.roster.read-all"
	PermRosterSelect     = "levelup.roster.select"
	PermConfigWrite      = "levelup.config.write"
	PermScoresImport     = "levelup.scores.import"
	PermScoresDistribute = "levelup.scores.distribute"
	PermRecalculate      = "levelup.scores.recalculate"
	PermOpinionWrite     = "levelup.opinion.write"
	PermOpinionOnBehalf  = "levelup.opinion.on-behalf"
	PermSubmit           = "levelup.submission.create"
	PermSubmitCancel     = "levelup.submission.cancel"
	PermConfirm          = "levelup.confirmation.write"
	PermReportsExport    = "levelup.reports.export"
	PermJobsRead         = "levelup.jobs.read"
)

// RolePermissions is the single operation-by-role matrix for the engine.
var RolePermissions = map[string][]string{
	RoleTeamMember: {},
	RoleTeamLead: {
		PermRosterRead,
	},
	RoleSectionChief: {
		PermRosterRead,
	},
	RoleDepartmentHead: {
		PermRosterRead,
		PermOpinionWrite,
		PermSubmit,
		PermSubmitCancel,
	},
	RoleHR: {
		PermRosterRead,
		PermRosterSelect,
		PermConfigWrite,
		PermScoresImport,
		PermScoresDistribute,
		PermRecalculate,
		PermOpinionWrite,
		PermSubmit,
		PermSubmitCancel,
		PermReportsExport,
		PermJobsRead,
	},
	RoleCEO: {
		PermRosterRead,
		PermRosterReadAll,
		PermConfirm,
		PermReportsExport,
	},
	RoleAdmin: {
		PermRosterRead,
		PermRosterReadAll,
		PermRosterSelect,
		PermConfigWrite,
		PermScoresImport,
		PermScoresDistribute,
		PermRecalculate,
		PermOpinionWrite,
		PermOpinionOnBehalf,
		PermSubmit,
		PermSubmitCancel,
		PermConfirm,
		PermReportsExport,
		PermJobsRead,
	},
}

func HasPermission(role, permission string) bool {
	for _, granted := range RolePermissions[role] {
		if granted == permission {
			return true
		}
	}
	return false
}
