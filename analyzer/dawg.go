// dawg.go содержит "плоское" представление словаря и операции чтения из него:
// поиск словоформы, генерацию лексемы по парадигме и поиск правил предсказателя.
// Массивы узлов, ребер и payload-ов отображаются в память (mmap) и не копируются.
package analyzer

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"
)

// --- СТРУКТУРЫ ДАННЫХ ---

// MorphInfo - Хранит индексы, указывающие на пулы строк и информацию о парадигме.
type MorphInfo struct {
	LemmaID,
	TagsID,
	ParadigmID uint32
	FormIdx   uint16 // Индекс формы в канонической лексеме парадигмы.
	Frequency uint16 // Частота формы с этими тегами в корпусе.
}

// PredictInfo - Хранит полезную информацию в узлах DAWG предсказателя.
type PredictInfo struct {
	Frequency  uint16 // Как часто это правило (суффикс + теги) встречалось в словаре.
	FormIdx    uint16 // Индекс слова-образца в канонической лексеме его парадигмы.
	ParadigmID uint32 // ID парадигмы, которую нужно использовать для склонения.
	TagsID     uint32 // ID тегов для этой конкретной формы-образца.
}

// Node - Рекурсивное представление узла Trie в оперативной памяти.
// Используется только при сборке словаря.
type Node struct {
	Children map[rune]*Node // Дочерние узлы по символу.
	Payload  []any          // Полезная нагрузка (MorphInfo или PredictInfo).
	IsFinal  bool           // Является ли этот узел концом слова/правила.
}

// FlatNode - "Плоское" представление узла для сохранения на диск.
// Вместо указателей используются индексы в глобальных массивах.
type FlatNode struct {
	PayloadIdx, EdgesIdx uint32 // Индексы начала срезов в массивах Payloads и Edges.
	PayloadLen, EdgesLen uint16 // Длины этих срезов.
	IsFinal              bool   // Является ли этот узел концом слова/правила.
}

// FlatEdge - "Плоское" представление ребра графа.
type FlatEdge struct {
	Char   rune   // Символ на ребре.
	NodeID uint32 // ID дочернего узла, на который указывает ребро.
}

// ParadigmInfo - Информация об одной из основ (stems) парадигмы.
// Нужна для правильного склонения слов с разными основами (бежать/бегу).
type ParadigmInfo struct {
	Stem   string // Сама основа.
	NodeID uint32 // ID узла, где эта основа заканчивается.
}

// PredictionCandidate - кандидат предсказателя вместе с длиной совпавшего суффикса.
type PredictionCandidate struct {
	PredictInfo
	SuffixLen int
}

// formEntry - словоформа парадигмы с её тегами.
type formEntry struct {
	Word   string
	TagsID uint32
}

// maxSuffixLen - самый длинный суффикс, по которому работает предсказатель.
const maxSuffixLen = 5

// --- РЕЕСТР ---

// tagByID возвращает разобранный тег из пула тегов словаря.
func (m *MorphAnalyzer) tagByID(id uint32) (*Tag, error) {
	if int(id) >= len(m.tags) {
		return nil, fmt.Errorf("%w: %d", ErrBadTagID, id)
	}
	return m.tags[id], nil
}

// lemmaOf возвращает лемму парадигмы.
func (m *MorphAnalyzer) lemmaOf(pID ParadigmID) (string, bool) {
	lemmaID, ok := m.paradigmToLemmaID[pID]
	if !ok || int(lemmaID) >= len(m.LemmaPool) {
		return "", false
	}
	return m.LemmaPool[lemmaID], true
}

func (m *MorphAnalyzer) shapeTag(kind ShapeKind) *Tag {
	if int(kind) < len(m.shapeTags) {
		return m.shapeTags[kind]
	}
	return m.tagUnknown
}

// --- ПОИСК ---

// findChildGeneral - универсальная функция поиска дочернего узла по символу.
// Ребра каждого узла лежат непрерывным отсортированным блоком,
// поэтому используется бинарный поиск.
func findChildGeneral(nodeIndex uint32, char rune, nodes []FlatNode, edges []FlatEdge) (uint32, bool) {
	node := nodes[nodeIndex]
	if node.EdgesLen == 0 {
		return 0, false
	}

	edgesStart, edgesEnd := node.EdgesIdx, node.EdgesIdx+uint32(node.EdgesLen)
	searchSlice := edges[edgesStart:edgesEnd]

	i := sort.Search(len(searchSlice), func(i int) bool { return searchSlice[i].Char >= char })
	if i < len(searchSlice) && searchSlice[i].Char == char {
		return searchSlice[i].NodeID, true
	}
	return 0, false
}

// walk проходит по графу от корня символ за символом.
func walk(s string, nodes []FlatNode, edges []FlatEdge) (uint32, bool) {
	if len(nodes) == 0 {
		return 0, false
	}
	current := uint32(0)
	for _, char := range s {
		child, found := findChildGeneral(current, char, nodes, edges)
		if !found {
			return 0, false
		}
		current = child
	}
	return current, true
}

// lookup возвращает все разборы словоформы из основного словаря.
func (m *MorphAnalyzer) lookup(wordLower string) []MorphInfo {
	if m.closed.Load() {
		return nil
	}
	idx, ok := walk(wordLower, m.nodes, m.edges)
	if !ok || !m.nodes[idx].IsFinal {
		return nil
	}
	node := m.nodes[idx]
	return m.payloads[node.PayloadIdx : node.PayloadIdx+uint32(node.PayloadLen)]
}

// paradigmForms возвращает каноническую лексему парадигмы.
// Формы собираются обходом словаря от каждой основы парадигмы.
func (m *MorphAnalyzer) paradigmForms(pID ParadigmID) []formEntry {
	if m.closed.Load() {
		return nil
	}
	paradigmInfoSlice, ok := m.paradigms[pID]
	if !ok {
		return nil
	}
	lemma, _ := m.lemmaOf(pID)

	seen := make(map[formEntry]struct{})
	for _, pInfo := range paradigmInfoSlice {
		m.dfsGenerate(pInfo.NodeID, pInfo.Stem, pID, seen)
	}
	if len(seen) == 0 {
		return nil
	}

	forms := make([]formEntry, 0, len(seen))
	for f := range seen {
		forms = append(forms, f)
	}
	sortLexeme(forms, lemma)
	return forms
}

// sortLexeme задает канонический порядок лексемы: сначала формы, совпадающие
// с леммой, затем по алфавиту и по ID тегов. Этот же порядок использует
// сборщик словаря при вычислении FormIdx.
func sortLexeme(forms []formEntry, lemma string) {
	slices.SortFunc(forms, func(a, b formEntry) int {
		aLemma, bLemma := a.Word == lemma, b.Word == lemma
		if aLemma != bLemma {
			if aLemma {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.Word, b.Word); c != 0 {
			return c
		}
		return cmp.Compare(a.TagsID, b.TagsID)
	})
}

// dfsGenerate обходит граф в глубину от узла `nodeIndex` и собирает все
// словоформы целевой парадигмы, добавляя к ним основу.
func (m *MorphAnalyzer) dfsGenerate(nodeIndex uint32, stem string, targetID ParadigmID, results map[formEntry]struct{}) {
	var suffix strings.Builder

	var findWord func(uint32)
	findWord = func(currNodeIdx uint32) {
		currNode := m.nodes[currNodeIdx]
		if currNode.IsFinal {
			payloadStart, payloadEnd := currNode.PayloadIdx, currNode.PayloadIdx+uint32(currNode.PayloadLen)
			for _, info := range m.payloads[payloadStart:payloadEnd] {
				if info.ParadigmID == targetID {
					results[formEntry{Word: stem + suffix.String(), TagsID: info.TagsID}] = struct{}{}
				}
			}
		}

		edgesStart, edgesEnd := currNode.EdgesIdx, currNode.EdgesIdx+uint32(currNode.EdgesLen)
		for _, edge := range m.edges[edgesStart:edgesEnd] {
			mark := suffix.Len()
			suffix.WriteRune(edge.Char)
			findWord(edge.NodeID)
			truncated := suffix.String()[:mark]
			suffix.Reset()
			suffix.WriteString(truncated)
		}
	}

	findWord(nodeIndex)
}

// findPredictions ищет правила предсказателя для слова.
// Пробует суффиксы от самого длинного к самому короткому и возвращает
// правила первого найденного суффикса, от частых к редким.
// Суффикс всегда короче слова: основа не бывает пустой.
func (m *MorphAnalyzer) findPredictions(word string) []PredictionCandidate {
	if m.closed.Load() {
		return nil
	}
	runes := []rune(word)

	for suffixLen := min(maxSuffixLen, len(runes)-1); suffixLen >= 1; suffixLen-- {
		suffix := string(runes[len(runes)-suffixLen:])
		idx, ok := walk(suffix, m.predictNodes, m.predictEdges)
		if !ok || !m.predictNodes[idx].IsFinal {
			continue
		}

		node := m.predictNodes[idx]
		payload := m.predictPayloads[node.PayloadIdx : node.PayloadIdx+uint32(node.PayloadLen)]
		candidates := make([]PredictionCandidate, 0, len(payload))
		for _, p := range payload {
			candidates = append(candidates, PredictionCandidate{PredictInfo: p, SuffixLen: suffixLen})
		}
		slices.SortStableFunc(candidates, func(a, b PredictionCandidate) int {
			return cmp.Compare(b.Frequency, a.Frequency)
		})
		return candidates
	}
	return nil
}

// suffixOf возвращает последние n символов слова.
func suffixOf(word string, n int) string {
	i := len(word)
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(word[:i])
		i -= size
	}
	return word[i:]
}
