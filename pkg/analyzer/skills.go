package analyzer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type skill struct {
	name    string
	aliases []string
}

// dictionary order is the order skills are reported in.
var dictionary = []skill{
	{"Go", []string{"go", "golang"}},
	{"Python", []string{"python"}},
	{"Java", []string{"java"}},
	{"Kotlin", []string{"kotlin"}},
	{"Swift", []string{"swift"}},
	{"C++", []string{"c++"}},
	{"C#", []string{"c#", ".net"}},
	{"PHP", []string{"php"}},
	{"JavaScript", []string{"javascript"}},
	{"TypeScript", []string{"typescript"}},
	{"React", []string{"react", "react.js"}},
	{"Vue", []string{"vue", "vue.js"}},
	{"Angular", []string{"angular"}},
	{"Next.js", []string{"next.js", "nextjs"}},
	{"Node.js", []string{"node.js", "nodejs"}},
	{"HTML", []string{"html"}},
	{"CSS", []string{"css", "scss"}},
	{"Django", []string{"django"}},
	{"FastAPI", []string{"fastapi"}},
	{"Spring", []string{"spring"}},
	{"SQL", []string{"sql"}},
	{"PostgreSQL", []string{"postgresql", "postgres"}},
	{"MySQL", []string{"mysql"}},
	{"MongoDB", []string{"mongodb", "mongo"}},
	{"Redis", []string{"redis"}},
	{"ClickHouse", []string{"clickhouse"}},
	{"Elasticsearch", []string{"elasticsearch"}},
	{"Kafka", []string{"kafka"}},
	{"RabbitMQ", []string{"rabbitmq"}},
	{"gRPC", []string{"grpc"}},
	{"REST API", []string{"rest", "rest api", "restful"}},
	{"GraphQL", []string{"graphql"}},
	{"Микросервисы", []string{"микросервис", "микросервисы", "микросервисная", "microservices"}},
	{"Docker", []string{"docker"}},
	{"Kubernetes", []string{"kubernetes", "k8s"}},
	{"Terraform", []string{"terraform"}},
	{"Ansible", []string{"ansible"}},
	{"CI/CD", []string{"ci/cd", "gitlab ci", "github actions"}},
	{"Linux", []string{"linux"}},
	{"Git", []string{"git"}},
	{"AWS", []string{"aws"}},
	{"GCP", []string{"gcp", "google cloud"}},
	{"Azure", []string{"azure"}},
	{"Prometheus", []string{"prometheus"}},
	{"Grafana", []string{"grafana"}},
	{"Machine Learning", []string{"machine learning", "машинное обучение", "ml"}},
	{"Pandas", []string{"pandas"}},
	{"Power BI", []string{"power bi"}},
	{"Tableau", []string{"tableau"}},
	{"Figma", []string{"figma"}},
	{"Agile", []string{"agile", "scrum", "kanban"}},
	{"Английский язык", []string{"английский", "english"}},
}

var normalizedAliases = func() [][]string {
	out := make([][]string, len(dictionary))
	for i, s := range dictionary {
		for _, a := range s.aliases {
			out[i] = append(out[i], normalizeText(a))
		}
	}
	return out
}()

// normalizeText lowercases s and strips combining marks (ё -> е, й -> и).
func normalizeText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return strings.ToLower(strings.TrimSpace(result))
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// containsWord reports whether needle occurs in text on word boundaries.
func containsWord(text, needle string) bool {
	for start := 0; start <= len(text)-len(needle); {
		i := strings.Index(text[start:], needle)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(needle)

		before := i == 0 || !isWordRune(lastRune(text[:i]))
		after := end == len(text) || !isWordRune(firstRune(text[end:]))
		if before && after {
			return true
		}
		start = i + 1
	}
	return false
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	rs := []rune(s)
	if len(rs) == 0 {
		return 0
	}
	return rs[len(rs)-1]
}

// ExtractSkills returns the dictionary skills mentioned in text.
func ExtractSkills(text string) []string {
	normalized := normalizeText(text)
	var found []string
	for i, s := range dictionary {
		for _, alias := range normalizedAliases[i] {
			if containsWord(normalized, alias) {
				found = append(found, s.name)
				break
			}
		}
	}
	return found
}

// requiredSkills collects skills from the vacancy texts and tags. Tags that are
// not in the dictionary are kept verbatim.
func requiredSkills(req Request) []string {
	required := ExtractSkills(req.Title + "\n" + req.Text + "\n" + strings.Join(req.Tags, ", "))
	seen := make(map[string]bool, len(required))
	for _, s := range required {
		seen[normalizeText(s)] = true
	}
	for _, tag := range req.Tags {
		if len(ExtractSkills(tag)) > 0 {
			continue
		}
		key := normalizeText(tag)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		required = append(required, strings.TrimSpace(tag))
	}
	return required
}

// skillSet indexes candidate skills by normalized raw value and by canonical name.
type skillSet map[string]bool

func newSkillSet(skills []string) skillSet {
	set := make(skillSet, len(skills)*2)
	for _, s := range skills {
		set[normalizeText(s)] = true
		for _, canonical := range ExtractSkills(s) {
			set[normalizeText(canonical)] = true
		}
	}
	return set
}

func (s skillSet) has(skill string) bool {
	return s[normalizeText(skill)]
}

// Compare splits required skills into the ones the candidate has and the ones missing.
func Compare(required, candidate []string) (matching, missing []string) {
	set := newSkillSet(candidate)
	matching, missing = []string{}, []string{}
	for _, r := range required {
		if set.has(r) {
			matching = append(matching, r)
		} else {
			missing = append(missing, r)
		}
	}
	return matching, missing
}

// Score is the matched share of required skills in percent; 0 when nothing is required.
func Score(matching, required int) int {
	if required == 0 {
		return 0
	}
	return matching * 100 / required
}
