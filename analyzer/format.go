package analyzer

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"unsafe"
)

// dictMagic - сигнатура текущей версии формата.
const dictMagic = "DAW8"

// arrayAlign - выравнивание "сырых" массивов внутри файла.
const arrayAlign = 8

var (
	// ErrBadDictionary - файл словаря поврежден или имеет чужой формат.
	ErrBadDictionary = errors.New("поврежденный файл словаря")
	// ErrBadTagID - ссылка на отсутствующий в пуле набор тегов.
	ErrBadTagID = errors.New("неизвестный ID тегов")
)

// Header - Заголовок бинарного файла словаря.
// Это "карта" всего файла, которая позволяет анализатору загружать данные методом Zero-Copy.
type Header struct {
	Magic                 [4]byte // Сигнатура "DAW8" для проверки корректности файла.
	ComplexDataOffset     int64   // Смещение до блока "сложных" данных (в байтах).
	ComplexDataLength     int64   // Длина этого блока (в байтах).
	NodesOffset           int64   // Смещение до массива узлов основного словаря.
	NodesCount            int64   // Количество элементов в этом массиве.
	EdgesOffset           int64   // Смещение до массива ребер основного словаря.
	EdgesCount            int64   // Количество элементов.
	PayloadsOffset        int64   // Смещение до массива payload-ов основного словаря.
	PayloadsCount         int64   // Количество элементов.
	PredictNodesOffset    int64   // Смещение до массива узлов предсказателя.
	PredictNodesCount     int64   // Количество элементов.
	PredictEdgesOffset    int64   // Смещение до массива ребер предсказателя.
	PredictEdgesCount     int64   // Количество элементов.
	PredictPayloadsOffset int64   // Смещение до массива payload-ов предсказателя.
	PredictPayloadsCount  int64   // Количество элементов.
}

// ComplexData - Контейнер для всех данных, которые неэффективно хранить в "сыром" виде.
// Эта часть файла сериализуется с помощью `gob`, сжимается gzip и полностью загружается в память.
type ComplexData struct {
	LemmaPool         []string                  // Пул всех лемм.
	TagsPool          []string                  // Пул всех наборов тегов.
	Paradigms         map[uint32][]ParadigmInfo // Основы парадигм.
	ParadigmToLemmaID map[uint32]uint32         // Карта для быстрого поиска леммы по ID парадигмы.
}

// dictionaryImage - все части словаря, готовые к записи или прочитанные из файла.
type dictionaryImage struct {
	ComplexData

	nodes    []FlatNode
	edges    []FlatEdge
	payloads []MorphInfo

	predictNodes    []FlatNode
	predictEdges    []FlatEdge
	predictPayloads []PredictInfo
}

var headerSize = int64(unsafe.Sizeof(Header{}))

// readImage разбирает образ словаря. Массивы не копируются:
// срезы указывают прямо в data, поэтому data должна жить не меньше результата.
func readImage(data []byte) (*dictionaryImage, error) {
	// 1. Читаем заголовок (карту файла).
	var header Header
	if int64(len(data)) < headerSize {
		return nil, fmt.Errorf("%w: файл слишком мал для заголовка", ErrBadDictionary)
	}
	if err := binary.Read(bytes.NewReader(data[:headerSize]), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("ошибка чтения заголовка: %w", err)
	}
	if string(header.Magic[:]) != dictMagic {
		return nil, fmt.Errorf("%w: неверная сигнатура %q", ErrBadDictionary, header.Magic[:])
	}

	// 2. Распаковываем и декодируем "сложный" блок.
	complexStart, complexEnd := header.ComplexDataOffset, header.ComplexDataOffset+header.ComplexDataLength
	if complexStart < headerSize || complexEnd < complexStart || complexEnd > int64(len(data)) {
		return nil, fmt.Errorf("%w: блок данных за пределами файла", ErrBadDictionary)
	}
	gzipReader, err := gzip.NewReader(bytes.NewReader(data[complexStart:complexEnd]))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания gzip.Reader: %w", err)
	}
	img := &dictionaryImage{}
	if err := gob.NewDecoder(gzipReader).Decode(&img.ComplexData); err != nil {
		return nil, fmt.Errorf("ошибка gob-декодирования: %w", err)
	}
	if err := gzipReader.Close(); err != nil {
		return nil, fmt.Errorf("ошибка закрытия gzip.Reader: %w", err)
	}

	// 3. Создаем "виртуальные" срезы поверх data.
	if img.nodes, err = viewArray[FlatNode](data, header.NodesOffset, header.NodesCount); err != nil {
		return nil, fmt.Errorf("узлы словаря: %w", err)
	}
	if img.edges, err = viewArray[FlatEdge](data, header.EdgesOffset, header.EdgesCount); err != nil {
		return nil, fmt.Errorf("ребра словаря: %w", err)
	}
	if img.payloads, err = viewArray[MorphInfo](data, header.PayloadsOffset, header.PayloadsCount); err != nil {
		return nil, fmt.Errorf("payload-ы словаря: %w", err)
	}
	if img.predictNodes, err = viewArray[FlatNode](data, header.PredictNodesOffset, header.PredictNodesCount); err != nil {
		return nil, fmt.Errorf("узлы предсказателя: %w", err)
	}
	if img.predictEdges, err = viewArray[FlatEdge](data, header.PredictEdgesOffset, header.PredictEdgesCount); err != nil {
		return nil, fmt.Errorf("ребра предсказателя: %w", err)
	}
	if img.predictPayloads, err = viewArray[PredictInfo](data, header.PredictPayloadsOffset, header.PredictPayloadsCount); err != nil {
		return nil, fmt.Errorf("payload-ы предсказателя: %w", err)
	}

	// 4. Проверяем ссылки между массивами, чтобы поиск не вышел за их границы.
	if err := validateGraph(img.nodes, img.edges, len(img.payloads)); err != nil {
		return nil, fmt.Errorf("словарь: %w", err)
	}
	if err := validateGraph(img.predictNodes, img.predictEdges, len(img.predictPayloads)); err != nil {
		return nil, fmt.Errorf("предсказатель: %w", err)
	}
	for pID, stems := range img.Paradigms {
		for _, stem := range stems {
			if int(stem.NodeID) >= len(img.nodes) {
				return nil, fmt.Errorf("%w: основа парадигмы %d ссылается на узел %d", ErrBadDictionary, pID, stem.NodeID)
			}
		}
	}
	return img, nil
}

func validateGraph(nodes []FlatNode, edges []FlatEdge, payloadCount int) error {
	for i, node := range nodes {
		if int(node.EdgesIdx)+int(node.EdgesLen) > len(edges) ||
			int(node.PayloadIdx)+int(node.PayloadLen) > payloadCount {
			return fmt.Errorf("%w: узел %d за пределами массивов", ErrBadDictionary, i)
		}
	}
	for i, edge := range edges {
		if int(edge.NodeID) >= len(nodes) {
			return fmt.Errorf("%w: ребро %d ведет к узлу %d", ErrBadDictionary, i, edge.NodeID)
		}
	}
	return nil
}

// writeTo сериализует образ: заголовок, сжатый gob-блок и выровненные "сырые" массивы.
func (img *dictionaryImage) writeTo(w io.Writer) error {
	var complexBuf bytes.Buffer
	gzipWriter := gzip.NewWriter(&complexBuf)
	if err := gob.NewEncoder(gzipWriter).Encode(img.ComplexData); err != nil {
		return fmt.Errorf("ошибка gob-кодирования: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("ошибка сжатия: %w", err)
	}

	arrays := [][]byte{
		sliceToBytes(img.nodes),
		sliceToBytes(img.edges),
		sliceToBytes(img.payloads),
		sliceToBytes(img.predictNodes),
		sliceToBytes(img.predictEdges),
		sliceToBytes(img.predictPayloads),
	}

	// Раскладываем части по смещениям.
	header := Header{
		ComplexDataOffset: headerSize,
		ComplexDataLength: int64(complexBuf.Len()),
	}
	copy(header.Magic[:], dictMagic)

	offset := header.ComplexDataOffset + header.ComplexDataLength
	offsets := make([]int64, len(arrays))
	for i, arr := range arrays {
		offset = alignUp(offset)
		offsets[i] = offset
		offset += int64(len(arr))
	}
	header.NodesOffset, header.NodesCount = offsets[0], int64(len(img.nodes))
	header.EdgesOffset, header.EdgesCount = offsets[1], int64(len(img.edges))
	header.PayloadsOffset, header.PayloadsCount = offsets[2], int64(len(img.payloads))
	header.PredictNodesOffset, header.PredictNodesCount = offsets[3], int64(len(img.predictNodes))
	header.PredictEdgesOffset, header.PredictEdgesCount = offsets[4], int64(len(img.predictEdges))
	header.PredictPayloadsOffset, header.PredictPayloadsCount = offsets[5], int64(len(img.predictPayloads))

	var out bytes.Buffer
	if err := binary.Write(&out, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("ошибка записи заголовка: %w", err)
	}
	out.Write(make([]byte, headerSize-int64(out.Len())))
	out.Write(complexBuf.Bytes())
	for i, arr := range arrays {
		out.Write(make([]byte, offsets[i]-int64(out.Len())))
		out.Write(arr)
	}

	if _, err := out.WriteTo(w); err != nil {
		return fmt.Errorf("ошибка записи словаря: %w", err)
	}
	return nil
}

func alignUp(n int64) int64 {
	return (n + arrayAlign - 1) &^ (arrayAlign - 1)
}

// viewArray проверяет границы и выравнивание массива и отдает его как срез.
func viewArray[T any](data []byte, offset, count int64) ([]T, error) {
	size := int64(unsafe.Sizeof(*new(T)))
	if offset < 0 || count < 0 || offset > int64(len(data)) || count > (int64(len(data))-offset)/size {
		return nil, fmt.Errorf("%w: массив за пределами файла", ErrBadDictionary)
	}
	if count == 0 {
		return nil, nil
	}
	chunk := data[offset : offset+count*size]
	if uintptr(unsafe.Pointer(&chunk[0]))%unsafe.Alignof(*new(T)) != 0 {
		return nil, fmt.Errorf("%w: массив не выровнен", ErrBadDictionary)
	}
	return bytesToSlice[T](chunk), nil
}

// bytesToSlice - "небезопасная" функция, которая создает срез,
// указывающий на область байт, без копирования самих данных.
func bytesToSlice[T any](b []byte) []T {
	if len(b) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(*new(T)))
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), len(b)/size)
}

// sliceToBytes - обратная операция: байтовое представление массива структур.
func sliceToBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(*new(T)))
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*size)
}
