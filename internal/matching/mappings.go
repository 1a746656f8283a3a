package matching

const (
	categoryLanguages = "Languages"
	categoryWeb       = "Web"
	categoryData      = "Databases"
	categoryCloud     = "Cloud & DevOps"
	categoryPractices = "Practices"
	categoryOther     = "Other"
)

// categoryOrder fixes the rendering order of gap categories.
var categoryOrder = []string{
	categoryLanguages,
	categoryWeb,
	categoryData,
	categoryCloud,
	categoryPractices,
	categoryOther,
}

// skillCategories maps lowercase taxonomy entries to gap categories.
// Skills outside the map land in Other rather than being dropped.
var skillCategories = map[string]string{
	"python":     categoryLanguages,
	"java":       categoryLanguages,
	"javascript": categoryLanguages,
	"typescript": categoryLanguages,
	"go":         categoryLanguages,
	"rust":       categoryLanguages,
	"c++":        categoryLanguages,
	"c#":         categoryLanguages,
	"ruby":       categoryLanguages,
	"php":        categoryLanguages,
	"swift":      categoryLanguages,
	"kotlin":     categoryLanguages,
	"scala":      categoryLanguages,
	"sql":        categoryLanguages,

	"html":        categoryWeb,
	"css":         categoryWeb,
	"react":       categoryWeb,
	"angular":     categoryWeb,
	"vue.js":      categoryWeb,
	"node.js":     categoryWeb,
	"django":      categoryWeb,
	"flask":       categoryWeb,
	"spring boot": categoryWeb,
	"graphql":     categoryWeb,

	"postgresql":    categoryData,
	"mysql":         categoryData,
	"mongodb":       categoryData,
	"redis":         categoryData,
	"elasticsearch": categoryData,

	"aws":          categoryCloud,
	"azure":        categoryCloud,
	"google cloud": categoryCloud,
	"docker":       categoryCloud,
	"kubernetes":   categoryCloud,
	"terraform":    categoryCloud,
	"jenkins":      categoryCloud,
	"git":          categoryCloud,

	"machine learning": categoryPractices,
	"agile":            categoryPractices,
	"leadership":       categoryPractices,
}
