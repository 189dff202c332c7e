package registry

import "strings"

// Profile — статическое описание перевозчика. Таблица загружается один
// раз при старте процесса и дальше только читается.
type Profile struct {
	Code                    string
	DisplayName             string
	Mode                    string
	IdentifierPrefixes      []string
	TrackingURLTemplate     string
	APIAdapterAvailable     bool
	ScrapeProviderAvailable bool
}

// GenericTracker — сторонний универсальный трекер для fallback-ссылок.
type GenericTracker struct {
	DisplayName string
	URLTemplate string
}

// Registry — read-only справочник перевозчиков. Передаётся явно
// (classifier/resolver получают его как зависимость), чтобы в тестах
// можно было подставить маленькую fixture-таблицу.
type Registry struct {
	profiles []Profile
	byCode   map[string]int
	generics []GenericTracker
}

func New(profiles []Profile, generics []GenericTracker) *Registry {
	byCode := make(map[string]int, len(profiles))
	for i, p := range profiles {
		if _, ok := byCode[p.Code]; !ok {
			byCode[p.Code] = i
		}
	}
	return &Registry{profiles: profiles, byCode: byCode, generics: generics}
}

// Default строит реестр из встроенной таблицы.
func Default() *Registry {
	return New(defaultProfiles(), defaultGenericTrackers())
}

func (r *Registry) LookupByCode(code string) (Profile, bool) {
	i, ok := r.byCode[strings.ToUpper(code)]
	if !ok {
		return Profile{}, false
	}
	return r.profiles[i], true
}

// LookupByPrefix возвращает первый профиль таблицы с данным префиксом,
// опционально ограничивая поиск режимами перевозки. Префиксы у разных
// перевозчиков исторически пересекаются (перепроданные коды после
// слияний); побеждает порядок вставки в таблицу. Это наблюдаемый
// контракт, а не случайность — см. тест на SUDU.
func (r *Registry) LookupByPrefix(prefix string, modes ...string) (Profile, bool) {
	prefix = strings.ToUpper(prefix)
	for _, p := range r.profiles {
		if len(modes) > 0 && !containsString(modes, p.Mode) {
			continue
		}
		if containsString(p.IdentifierPrefixes, prefix) {
			return p, true
		}
	}
	return Profile{}, false
}

func (r *Registry) AllDisplayNames() []string {
	out := make([]string, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p.DisplayName)
	}
	return out
}

func (r *Registry) Profiles() []Profile {
	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

func (r *Registry) GenericTrackers() []GenericTracker {
	out := make([]GenericTracker, len(r.generics))
	copy(out, r.generics)
	return out
}

// TrackingURL подставляет номер в шаблон. Шаблоны никогда не парсятся,
// только подстановка {number}.
func TrackingURL(template, number string) string {
	return strings.ReplaceAll(template, "{number}", number)
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
