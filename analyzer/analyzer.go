// Этот файл содержит логику морфологического анализатора.
// Он загружает скомпилированный бинарный словарь (morph.dawg) и предоставляет
// API для разбора, склонения и декодирования сохраненных разборов.
// Ключевая особенность - использование mmap для Zero-Copy загрузки, что минимизирует
// потребление ОЗУ.
package analyzer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// --- ПЕРЕМЕННЫЕ ОКРУЖЕНИЯ ---

// EnvDictPath - имя переменной окружения для переопределения пути к словарю.
const EnvDictPath = "STEOSMORPHY_DICT_PATH"

const (
	defaultDictName = "morph.dawg"
	dictPartsPrefix = "morph_"

	// listChunkSize - размер одного "пакета" для обработки воркером.
	listChunkSize = 1000
)

var errNoParts = errors.New("не найдено файлов частей словаря")

// ErrClosed возвращается при обращении к закрытому анализатору.
var ErrClosed = errors.New("анализатор закрыт")

// MorphAnalyzer - основная структура, хранящая все данные и состояние анализатора.
// После загрузки анализатор только читается и безопасен для конкурентного использования.
type MorphAnalyzer struct {
	// Данные словаря.
	LemmaPool         []string                  // Пул всех лемм.
	tagsPool          []string                  // Пул всех наборов тегов.
	tags              []*Tag                    // Разобранные теги пула, по тем же ID.
	paradigms         map[uint32][]ParadigmInfo // Информация о парадигмах.
	paradigmToLemmaID map[uint32]uint32         // Карта для быстрого поиска леммы по ID парадигмы.

	// "Сырые" данные, отображенные в память (mmap), но не скопированные в "кучу" Go.
	// Это срезы, указывающие на область памяти, управляемую ОС.
	nodes    []FlatNode  // Узлы основного DAWG.
	edges    []FlatEdge  // Ребра основного DAWG.
	payloads []MorphInfo // Полезная нагрузка основного DAWG.

	predictNodes    []FlatNode    // Узлы DAWG предсказателя.
	predictEdges    []FlatEdge    // Ребра DAWG предсказателя.
	predictPayloads []PredictInfo // Полезная нагрузка DAWG предсказателя.

	// Ссылка на mmap-объект, чтобы он не был собран сборщиком мусора
	// и память оставалась доступной.
	mmapFile mmap.MMap
	// Образ словаря в куче, если анализатор создан через New.
	image []uint64
	// closed общий для анализатора и всех его копий из WithUnits.
	closed *atomic.Bool

	// Теги терминалов, не связанных со словарем.
	tagUnknown  *Tag
	tagParticle *Tag
	shapeTags   [ShapeRoman + 1]*Tag

	config     Config
	units      []Unit
	dictionary *DictionaryAnalyzer
}

// --- ЗАГРУЗКА ---

// LoadMorphAnalyzer - конструктор анализатора с настройками по умолчанию.
func LoadMorphAnalyzer() (*MorphAnalyzer, error) {
	return LoadWithConfig(DefaultConfig())
}

// LoadWithConfig ищет словарь по cfg.DictPath, затем по EnvDictPath,
// затем рядом с пакетом (собирая его из частей morph_*, если нужно).
func LoadWithConfig(cfg Config) (*MorphAnalyzer, error) {
	dictPath := cfg.DictPath
	if dictPath == "" {
		dictPath = os.Getenv(EnvDictPath)
	}
	if dictPath != "" {
		return Load(dictPath, cfg)
	}

	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return nil, errors.New("не удалось определить путь к пакету steosmorphy")
	}
	dictPath = filepath.Join(filepath.Dir(currentFilePath), defaultDictName)

	// Если объединенного файла нет, ищем части и объединяем их.
	if _, err := os.Stat(dictPath); errors.Is(err, fs.ErrNotExist) {
		logger.Info("объединенный файл словаря не найден, ищем части", "path", dictPath)

		err = mergeFilesWithPrefix(filepath.Dir(dictPath), dictPartsPrefix, dictPath)
		if errors.Is(err, errNoParts) {
			return nil, fmt.Errorf(
				"словарь или его части не найдены по вычисленному пути '%s'. "+
					"Убедитесь, что файлы 'morph_aa', 'morph_ab', ... присутствуют. "+
					"Либо установите переменную окружения %s",
				dictPath, EnvDictPath,
			)
		}
		if err != nil {
			return nil, fmt.Errorf("ошибка при объединении частей словаря: %w", err)
		}
		logger.Info("части словаря объединены", "path", dictPath)
	}

	return Load(dictPath, cfg)
}

// Load загружает бинарный словарь через mmap. Массивы графа не копируются
// в кучу, поэтому анализатор нужно закрыть методом Close.
func Load(path string, cfg Config) (*MorphAnalyzer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	// Отображаем весь файл в виртуальное адресное пространство процесса.
	// Файл не копируется в ОЗУ, ОС сама подгружает нужные страницы.
	mmapFile, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("ошибка mmap.Map: %w", err)
	}

	img, err := readImage(mmapFile)
	if err != nil {
		_ = mmapFile.Unmap()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m := newMorphAnalyzer(img, cfg)
	m.mmapFile = mmapFile
	logger.Info("словарь загружен", "path", path, "lemmas", len(m.LemmaPool), "tags", len(m.tagsPool), "nodes", len(m.nodes))
	return m, nil
}

// New создает анализатор из образа словаря, уже находящегося в памяти
// (например, встроенного через embed). Образ копируется.
func New(data []byte, cfg Config) (*MorphAnalyzer, error) {
	buf := make([]uint64, (len(data)+arrayAlign-1)/arrayAlign)
	image := sliceToBytes(buf)[:len(data)]
	copy(image, data)

	img, err := readImage(image)
	if err != nil {
		return nil, err
	}
	m := newMorphAnalyzer(img, cfg)
	m.image = buf
	return m, nil
}

func newMorphAnalyzer(img *dictionaryImage, cfg Config) *MorphAnalyzer {
	m := &MorphAnalyzer{
		LemmaPool:         img.LemmaPool,
		tagsPool:          img.TagsPool,
		paradigms:         img.Paradigms,
		paradigmToLemmaID: img.ParadigmToLemmaID,
		nodes:             img.nodes,
		edges:             img.edges,
		payloads:          img.payloads,
		predictNodes:      img.predictNodes,
		predictEdges:      img.predictEdges,
		predictPayloads:   img.predictPayloads,
		tagUnknown:        NewTag(GrammemeUnknown),
		tagParticle:       NewTag(GrammemeParticle),
		config:            cfg,
		closed:            new(atomic.Bool),
	}

	m.tags = make([]*Tag, len(m.tagsPool))
	for i, tagString := range m.tagsPool {
		m.tags[i] = NewTag(tagString)
	}

	m.shapeTags[ShapeLatin] = NewTag(GrammemeLatin)
	m.shapeTags[ShapeInteger] = NewTag(GrammemeNumber + "," + GrammemeInt)
	m.shapeTags[ShapeReal] = NewTag(GrammemeNumber + "," + GrammemeReal)
	m.shapeTags[ShapePunctuation] = NewTag(GrammemePunct)
	m.shapeTags[ShapeRoman] = NewTag(GrammemeRoman)

	m.dictionary = &DictionaryAnalyzer{}
	m.units = DefaultUnits(m.dictionary, cfg)
	return m
}

// Close освобождает отображенный в память словарь. Закрывается словарь
// целиком, вместе со всеми копиями из WithUnits; повторный вызов ничего не делает.
// После Close разбор возвращает пустой результат, а Decode - ErrClosed.
// Close нельзя вызывать одновременно с разбором.
func (m *MorphAnalyzer) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	m.nodes, m.edges, m.payloads = nil, nil, nil
	m.predictNodes, m.predictEdges, m.predictPayloads = nil, nil, nil
	m.image = nil
	if m.mmapFile == nil {
		return nil
	}
	err := m.mmapFile.Unmap()
	m.mmapFile = nil
	return err
}

// WithUnits возвращает анализатор с другим набором и порядком анализаторов.
// Копия разделяет словарь с исходным: Close любой из них закрывает обе.
func (m *MorphAnalyzer) WithUnits(units ...Unit) *MorphAnalyzer {
	c := *m
	c.units = slices.Clone(units)
	return &c
}

// Units возвращает имена анализаторов в порядке их запуска.
func (m *MorphAnalyzer) Units() []string {
	names := make([]string, len(m.units))
	for i, u := range m.units {
		names[i] = u.Name()
	}
	return names
}

// Config возвращает настройки, с которыми создан анализатор.
func (m *MorphAnalyzer) Config() Config { return m.config }

// mergeFilesWithPrefix объединяет файлы с заданным префиксом в один большой файл.
// sourceDir - директория, где находятся части.
// prefix - префикс имен файлов частей (например, "morph_").
// outputPath - путь к файлу, куда будут записаны объединенные данные.
func mergeFilesWithPrefix(sourceDir, prefix, outputPath string) error {
	// 1. Найти все файлы, начинающиеся с префикса в указанной директории.
	var partFiles []string
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		base := filepath.Base(path)
		if !d.IsDir() && base != filepath.Base(outputPath) && strings.HasPrefix(base, prefix) {
			partFiles = append(partFiles, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ошибка при поиске файлов: %w", err)
	}

	if len(partFiles) == 0 {
		return fmt.Errorf("%w: префикс '%s', директория '%s'", errNoParts, prefix, sourceDir)
	}

	// 2. Сортировать файлы по имени, чтобы обеспечить правильный порядок.
	// `split` по умолчанию создает файлы с суффиксами `aa`, `ab`, `ac` и т.д.,
	// что обеспечивает правильный лексикографический порядок.
	sort.Strings(partFiles)
	logger.Info("объединяем части словаря", "parts", len(partFiles), "first", filepath.Base(partFiles[0]))

	// 3. Создать или перезаписать выходной файл.
	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("ошибка создания выходного файла %s: %w", outputPath, err)
	}
	defer outFile.Close()

	// 4. Скопировать содержимое каждой части в выходной файл.
	for _, partPath := range partFiles {
		logger.Debug("копируем часть", "part", filepath.Base(partPath))
		inFile, err := os.Open(partPath)
		if err != nil {
			return fmt.Errorf("ошибка открытия части файла %s: %w", partPath, err)
		}

		_, err = io.Copy(outFile, inFile)
		inFile.Close()
		if err != nil {
			return fmt.Errorf("ошибка копирования данных из %s в %s: %w", partPath, outputPath, err)
		}
	}

	return outFile.Sync()
}

// --- РАЗБОР ---

// toLower приводит слово к нижнему регистру по правилам русского языка.
// cases.Caser хранит состояние, поэтому создается на каждый вызов.
func toLower(word string) string {
	return cases.Lower(language.Russian).String(word)
}

// RunPipeline прогоняет слово через все анализаторы по порядку.
// Разборы возвращаются в порядке добавления, без сортировки.
func (m *MorphAnalyzer) RunPipeline(word string) ParseResult {
	if m.closed.Load() {
		logger.Warn("разбор на закрытом анализаторе", "word", word)
		return nil
	}
	wordLower := toLower(word)
	result := ParseResult{}
	seen := NewSeenSet()

	for _, unit := range m.units {
		before := len(result)
		unit.Parse(m, &result, word, wordLower, seen)
		if added := len(result) - before; added > 0 {
			logger.Debug("разборы добавлены", "unit", unit.Name(), "word", word, "word_lower", wordLower, "count", added)
		}
	}
	return result
}

// Parse возвращает все разборы слова от самого вероятного к наименее вероятному.
func (m *MorphAnalyzer) Parse(word string) ParseResult {
	result := m.RunPipeline(word)
	result.SortByScore()
	return result
}

// Analyze - главный публичный метод. Принимает слово и возвращает его разборы
// вместе со всеми словоформами. Работает для словарных и несловарных слов.
func (m *MorphAnalyzer) Analyze(word string) (ParseResult, []Lex) {
	parses := m.Parse(word)
	return parses, m.formsOf(parses)
}

// Inflect генерирует все словоформы слова.
func (m *MorphAnalyzer) Inflect(word string) []Lex {
	return m.formsOf(m.Parse(word))
}

// formsOf собирает словоформы разборов: всех словарных, если такие есть,
// иначе только лучшей гипотезы.
func (m *MorphAnalyzer) formsOf(parses ParseResult) []Lex {
	if len(parses) == 0 {
		return nil
	}

	sources := parses[:1]
	if parses.HasKnown() {
		sources = slices.DeleteFunc(slices.Clone(parses), func(p Parsed) bool { return !p.Lex.IsKnown() })
	}

	seen := NewSeenSet()
	var forms []Lex
	for _, p := range sources {
		for _, lex := range p.Lex.Lexeme() {
			if seen.Insert(lex.AsSeen()) {
				forms = append(forms, lex)
			}
		}
	}
	sortLexByWord(forms)
	return forms
}

// Decode восстанавливает разбор из текстового представления
// и проверяет, что его ссылки на словарь действительны.
func (m *MorphAnalyzer) Decode(token string) (Lex, error) {
	if m.closed.Load() {
		return Lex{}, ErrClosed
	}
	stack, err := Decode(token)
	if err != nil {
		return Lex{}, err
	}
	for _, part := range []*StackAffix{&stack.Left, stack.Right} {
		if part == nil {
			continue
		}
		if d, ok := part.Source.(*Dictionary); ok {
			if _, err := m.tagByID(d.TagsID); err != nil {
				return Lex{}, err
			}
		}
	}
	return m.lexFromStack(stack), nil
}

// --- ПАКЕТНАЯ ОБРАБОТКА ---

// ParseList анализирует срез слов в конкурентном режиме, используя пул воркеров.
// Разборы упорядочены по слову, а внутри слова - по убыванию оценки.
func (m *MorphAnalyzer) ParseList(words []string) ParseResult {
	all := processList(words, m.config.Workers, func(word string) []Parsed {
		return m.Parse(word)
	})
	slices.SortStableFunc(all, func(a, b Parsed) int {
		return strings.Compare(a.Lex.Word(), b.Lex.Word())
	})
	return all
}

// InflectList анализирует срез слов и возвращает все их словоформы.
func (m *MorphAnalyzer) InflectList(words []string) []Lex {
	all := processList(words, m.config.Workers, m.Inflect)
	sortLexByWord(all)
	return all
}

// processList нарезает слова на чанки и обрабатывает их параллельно.
// Результаты склеиваются в порядке чанков.
func processList[T any](words []string, workers int, fn func(string) []T) []T {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	chunks := (len(words) + listChunkSize - 1) / listChunkSize
	results := make([][]T, chunks)

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range chunks {
		start := i * listChunkSize
		end := min(start+listChunkSize, len(words))
		g.Go(func() error {
			out := make([]T, 0, end-start)
			for _, word := range words[start:end] {
				out = append(out, fn(word)...)
			}
			results[i] = out
			return nil
		})
	}
	_ = g.Wait()

	return slices.Concat(results...)
}
