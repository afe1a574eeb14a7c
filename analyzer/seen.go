package analyzer

// Seen - ключ, по которому разборы одного слова считаются одинаковыми:
// слово, теги и парадигма.
type Seen struct {
	Word        string
	Tags        string
	ParadigmID  ParadigmID
	HasParadigm bool
}

// SeenSet - множество уже добавленных разборов. Живет в пределах
// одного вызова разбора слова и не разделяется между горутинами.
type SeenSet map[Seen]struct{}

// NewSeenSet создает пустое множество.
func NewSeenSet() SeenSet { return make(SeenSet) }

// Insert добавляет ключ и сообщает, был ли он новым.
func (s SeenSet) Insert(key Seen) bool {
	if _, ok := s[key]; ok {
		return false
	}
	s[key] = struct{}{}
	return true
}

// IsEmpty сообщает, что ни один разбор еще не добавлен.
func (s SeenSet) IsEmpty() bool { return len(s) == 0 }

// addParsedIfNotSeen добавляет разбор в результат, если такого еще не было.
// Повтор молча отбрасывается.
func addParsedIfNotSeen(result *ParseResult, seen SeenSet, parsed Parsed) bool {
	if !seen.Insert(parsed.Lex.AsSeen()) {
		return false
	}
	result.Push(parsed)
	return true
}
