// builder.go собирает бинарный словарь из списка лексем: префиксное дерево
// словоформ, основы парадигм и правила предсказателя по окончаниям.
package analyzer

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"unicode/utf8"
)

// Lexeme - лексема словаря: все формы одного слова, первая из них - лемма.
type Lexeme struct {
	Forms []WordForm
}

// WordForm - словоформа лексемы с тегами и частотой в корпусе.
type WordForm struct {
	Word      string
	Tags      string
	Frequency uint16
}

var errEmptyLexeme = errors.New("пустая лексема")

// ruleKey - правило предсказателя: окончание и теги формы.
type ruleKey struct {
	suffix string
	tagsID uint32
}

// stemRef - основа парадигмы и узел дерева, где она заканчивается.
type stemRef struct {
	stem string
	node *Node
}

type dictBuilder struct {
	lemmaIDs  map[string]uint32
	lemmaPool []string
	tagIDs    map[string]uint32
	tagsPool  []string
	tags      []*Tag

	root              *Node
	stems             map[uint32][]stemRef
	paradigmToLemmaID map[uint32]uint32
	rules             map[ruleKey]*PredictInfo
}

// BuildDictionary собирает словарь и пишет его в w.
// ID парадигмы лексемы - её индекс в lexemes.
func BuildDictionary(w io.Writer, lexemes []Lexeme) error {
	b := &dictBuilder{
		lemmaIDs:          make(map[string]uint32),
		tagIDs:            make(map[string]uint32),
		root:              newNode(),
		stems:             make(map[uint32][]stemRef),
		paradigmToLemmaID: make(map[uint32]uint32),
		rules:             make(map[ruleKey]*PredictInfo),
	}
	for i, lexeme := range lexemes {
		if err := b.addLexeme(ParadigmID(i), lexeme); err != nil {
			return fmt.Errorf("лексема %d: %w", i, err)
		}
	}

	img, err := b.image()
	if err != nil {
		return err
	}
	logger.Info("словарь собран",
		"lexemes", len(lexemes), "lemmas", len(img.LemmaPool), "tags", len(img.TagsPool),
		"nodes", len(img.nodes), "rules", len(img.predictPayloads))
	return img.writeTo(w)
}

func newNode() *Node { return &Node{Children: make(map[rune]*Node)} }

// insert проходит по дереву, создавая недостающие узлы, и возвращает последний.
func insert(root *Node, word string) *Node {
	node := root
	for _, char := range word {
		child, ok := node.Children[char]
		if !ok {
			child = newNode()
			node.Children[char] = child
		}
		node = child
	}
	return node
}

func intern(s string, ids map[string]uint32, pool *[]string) uint32 {
	if id, ok := ids[s]; ok {
		return id
	}
	id := uint32(len(*pool))
	ids[s] = id
	*pool = append(*pool, s)
	return id
}

func (b *dictBuilder) tagID(tags string) uint32 {
	id := intern(tags, b.tagIDs, &b.tagsPool)
	if int(id) == len(b.tags) {
		b.tags = append(b.tags, NewTag(tags))
	}
	return id
}

func (b *dictBuilder) addLexeme(pID ParadigmID, lexeme Lexeme) error {
	if len(lexeme.Forms) == 0 {
		return errEmptyLexeme
	}
	lemma := toLower(lexeme.Forms[0].Word)
	if lemma == "" {
		return errors.New("пустая лемма")
	}
	lemmaID := intern(lemma, b.lemmaIDs, &b.lemmaPool)
	b.paradigmToLemmaID[pID] = lemmaID

	// Одинаковые формы с одинаковыми тегами сливаются, частоты складываются.
	freqs := make(map[formEntry]int)
	for _, f := range lexeme.Forms {
		word := toLower(f.Word)
		if word == "" || f.Tags == "" {
			return fmt.Errorf("форма %q без слова или тегов", f.Word)
		}
		freqs[formEntry{Word: word, TagsID: b.tagID(f.Tags)}] += int(f.Frequency)
	}
	forms := slices.Collect(maps.Keys(freqs))
	sortLexeme(forms, lemma)
	if len(forms) > math.MaxUint16+1 {
		return fmt.Errorf("слишком много форм: %d", len(forms))
	}

	for idx, f := range forms {
		node := insert(b.root, f.Word)
		node.IsFinal = true
		node.Payload = append(node.Payload, MorphInfo{
			LemmaID:    lemmaID,
			TagsID:     f.TagsID,
			ParadigmID: pID,
			FormIdx:    uint16(idx),
			Frequency:  uint16(min(freqs[f], math.MaxUint16)),
		})
		if b.tags[f.TagsID].IsProductive() {
			b.addRules(pID, uint16(idx), f)
		}
	}

	for _, stem := range paradigmStems(forms) {
		b.stems[pID] = append(b.stems[pID], stemRef{stem: stem, node: insert(b.root, stem)})
	}
	return nil
}

// paradigmStems группирует формы по первой букве и берет общий префикс
// каждой группы. Так у "идти" и "шёл" получаются две основы.
func paradigmStems(forms []formEntry) []string {
	groups := make(map[rune][]string)
	for _, f := range forms {
		first, _ := utf8.DecodeRuneInString(f.Word)
		groups[first] = append(groups[first], f.Word)
	}

	stems := make([]string, 0, len(groups))
	for _, first := range slices.Sorted(maps.Keys(groups)) {
		words := groups[first]
		stem := words[0]
		for _, w := range words[1:] {
			stem = commonPrefix(stem, w)
		}
		stems = append(stems, stem)
	}
	return stems
}

// commonPrefix - общий префикс двух строк по границам рун.
func commonPrefix(a, b string) string {
	i := 0
	for i < len(a) && i < len(b) {
		ra, size := utf8.DecodeRuneInString(a[i:])
		rb, _ := utf8.DecodeRuneInString(b[i:])
		if ra != rb {
			break
		}
		i += size
	}
	return a[:i]
}

// addRules учитывает форму в правилах предсказателя для всех её окончаний
// длиной от 1 до maxSuffixLen, оставляя основу непустой.
// Образцом правила остается первая встреченная форма.
func (b *dictBuilder) addRules(pID ParadigmID, formIdx uint16, f formEntry) {
	runeLen := utf8.RuneCountInString(f.Word)
	for suffixLen := 1; suffixLen <= min(maxSuffixLen, runeLen-1); suffixLen++ {
		key := ruleKey{suffix: suffixOf(f.Word, suffixLen), tagsID: f.TagsID}
		if rule, ok := b.rules[key]; ok {
			if rule.Frequency < math.MaxUint16 {
				rule.Frequency++
			}
			continue
		}
		b.rules[key] = &PredictInfo{Frequency: 1, FormIdx: formIdx, ParadigmID: pID, TagsID: f.TagsID}
	}
}

func (b *dictBuilder) image() (*dictionaryImage, error) {
	nodes, edges, payloads, ids, err := flatten[MorphInfo](b.root)
	if err != nil {
		return nil, fmt.Errorf("словарь: %w", err)
	}

	predictRoot := newNode()
	keys := slices.SortedFunc(maps.Keys(b.rules), func(x, y ruleKey) int {
		if c := cmp.Compare(x.suffix, y.suffix); c != 0 {
			return c
		}
		rx, ry := b.rules[x], b.rules[y]
		if c := cmp.Compare(ry.Frequency, rx.Frequency); c != 0 {
			return c
		}
		return cmp.Compare(x.tagsID, y.tagsID)
	})
	for _, key := range keys {
		node := insert(predictRoot, key.suffix)
		node.IsFinal = true
		node.Payload = append(node.Payload, *b.rules[key])
	}
	predictNodes, predictEdges, predictPayloads, _, err := flatten[PredictInfo](predictRoot)
	if err != nil {
		return nil, fmt.Errorf("предсказатель: %w", err)
	}

	paradigms := make(map[uint32][]ParadigmInfo, len(b.stems))
	for pID, refs := range b.stems {
		for _, ref := range refs {
			paradigms[pID] = append(paradigms[pID], ParadigmInfo{Stem: ref.stem, NodeID: ids[ref.node]})
		}
	}

	return &dictionaryImage{
		ComplexData: ComplexData{
			LemmaPool:         b.lemmaPool,
			TagsPool:          b.tagsPool,
			Paradigms:         paradigms,
			ParadigmToLemmaID: b.paradigmToLemmaID,
		},
		nodes:           nodes,
		edges:           edges,
		payloads:        payloads,
		predictNodes:    predictNodes,
		predictEdges:    predictEdges,
		predictPayloads: predictPayloads,
	}, nil
}

// flatten раскладывает дерево в "плоские" массивы обходом в ширину.
// Ребра каждого узла идут подряд и отсортированы по символу.
func flatten[P any](root *Node) ([]FlatNode, []FlatEdge, []P, map[*Node]uint32, error) {
	ids := map[*Node]uint32{root: 0}
	order := []*Node{root}
	for i := 0; i < len(order); i++ {
		node := order[i]
		for _, char := range slices.Sorted(maps.Keys(node.Children)) {
			child := node.Children[char]
			ids[child] = uint32(len(order))
			order = append(order, child)
		}
	}

	nodes := make([]FlatNode, len(order))
	var edges []FlatEdge
	var payloads []P
	for i, node := range order {
		if len(node.Children) > math.MaxUint16 || len(node.Payload) > math.MaxUint16 {
			return nil, nil, nil, nil, fmt.Errorf("узел %d: слишком много ребер или разборов", i)
		}
		nodes[i] = FlatNode{
			PayloadIdx: uint32(len(payloads)),
			EdgesIdx:   uint32(len(edges)),
			PayloadLen: uint16(len(node.Payload)),
			EdgesLen:   uint16(len(node.Children)),
			IsFinal:    node.IsFinal,
		}
		for _, char := range slices.Sorted(maps.Keys(node.Children)) {
			edges = append(edges, FlatEdge{Char: char, NodeID: ids[node.Children[char]]})
		}
		for _, p := range node.Payload {
			payload, ok := p.(P)
			if !ok {
				return nil, nil, nil, nil, fmt.Errorf("узел %d: неожиданный тип разбора %T", i, p)
			}
			payloads = append(payloads, payload)
		}
	}
	return nodes, edges, payloads, ids, nil
}
