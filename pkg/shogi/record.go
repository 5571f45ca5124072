package shogi

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

// MoveEval is an optional per-ply engine evaluation attached to a record.
type MoveEval struct {
	Ply        int32  `parquet:"name=ply, type=INT32"`
	ScoreType  string `parquet:"name=score_type, type=BYTE_ARRAY, convertedtype=UTF8"`
	ScoreValue int32  `parquet:"name=score_value, type=INT32"`
}

// GameRecord is the archived form of a finished game.
type GameRecord struct {
	GameID        string     `parquet:"name=game_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	SenteName     string     `parquet:"name=sente_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	SenteRating   int32      `parquet:"name=sente_rating, type=INT32"`
	GoteName      string     `parquet:"name=gote_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	GoteRating    int32      `parquet:"name=gote_rating, type=INT32"`
	Result        string     `parquet:"name=result, type=BYTE_ARRAY, convertedtype=UTF8"`
	WinReason     string     `parquet:"name=win_reason, type=BYTE_ARRAY, convertedtype=UTF8"`
	MoveCount     int32      `parquet:"name=move_count, type=INT32"`
	FinalSFEN     string     `parquet:"name=final_sfen, type=BYTE_ARRAY, convertedtype=UTF8"`
	FinalPosition string     `parquet:"name=final_position, type=BYTE_ARRAY"`
	MoveEvals     []MoveEval `parquet:"name=move_evals, type=LIST"`
}

// RecordFromGame archives a session. The packed final position is embedded
// so tools can reconstruct the board without replaying the history.
func RecordFromGame(g *Game) (GameRecord, error) {
	pos := g.Position()
	packed, err := pos.Pack()
	if err != nil {
		return GameRecord{}, fmt.Errorf("pack final position: %w", err)
	}
	result := g.Result()
	record := GameRecord{
		GameID:        g.ID(),
		MoveCount:     int32(len(g.History())),
		FinalSFEN:     pos.SFEN(len(g.History()) + 1),
		FinalPosition: string(packed.Bytes()),
	}
	switch result.Kind {
	case Ongoing:
		record.Result = "unknown"
	case Resignation, Checkmate, IllegalMove:
		if result.Winner == Black {
			record.Result = "sente_win"
		} else {
			record.Result = "gote_win"
		}
		record.WinReason = result.Kind.String()
	}
	return record, nil
}

// FinalPacked decodes the embedded packed position.
func (r GameRecord) FinalPacked() (Packed256, error) {
	return Packed256FromBytes([]byte(r.FinalPosition))
}

// WriteRecords streams records into one snappy-compressed parquet file.
func WriteRecords(path string, records <-chan GameRecord, parallel int64) error {
	fileWriter, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	defer fileWriter.Close()

	parquetWriter, err := writer.NewParquetWriter(fileWriter, new(GameRecord), parallel)
	if err != nil {
		return err
	}
	parquetWriter.CompressionType = parquet.CompressionCodec_SNAPPY

	for record := range records {
		if err := parquetWriter.Write(record); err != nil {
			return err
		}
	}
	if err := parquetWriter.WriteStop(); err != nil {
		return err
	}
	return fileWriter.Close()
}

// ReadRecords loads a parquet archive written by WriteRecords.
func ReadRecords(path string, parallel int64) ([]GameRecord, error) {
	fileReader, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, err
	}
	defer fileReader.Close()

	parquetReader, err := reader.NewParquetReader(fileReader, new(GameRecord), parallel)
	if err != nil {
		return nil, err
	}
	defer parquetReader.ReadStop()

	total := int(parquetReader.GetNumRows())
	out := make([]GameRecord, 0, total)
	batchSize := 1024
	for offset := 0; offset < total; offset += batchSize {
		if remain := total - offset; remain < batchSize {
			batchSize = remain
		}
		batch := make([]GameRecord, batchSize)
		if err := parquetReader.Read(&batch); err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}
