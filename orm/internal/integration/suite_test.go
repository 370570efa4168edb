package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"adminql/orm"
)

// Suite runs the same round trips against any driver.
type Suite struct {
	suite.Suite
	driver string
	dsn    string
	db     *orm.DB
}

var schema = []string{
	"CREATE TABLE IF NOT EXISTS team (id BIGINT PRIMARY KEY, name VARCHAR(64) NOT NULL)",
	"CREATE TABLE IF NOT EXISTS member (id BIGINT PRIMARY KEY, name VARCHAR(64) NOT NULL, team_id BIGINT NOT NULL)",
}

func (s *Suite) SetupSuite() {
	db, err := orm.Open(s.driver, s.dsn)
	require.NoError(s.T(), err)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(s.T(), db.Wait(ctx))
	for _, stmt := range schema {
		_, err = db.Exec(ctx, stmt)
		require.NoError(s.T(), err)
	}
	s.db = db

	res := orm.NewInserter[Team](db).Values(&Team{Id: 1, Name: "red"}, &Team{Id: 2, Name: "blue"}).Exec(ctx)
	require.NoError(s.T(), res.Err())
	res = orm.NewInserter[Member](db).Values(
		&Member{Id: 1, Name: "Tom", TeamId: 1},
		&Member{Id: 2, Name: "Jerry", TeamId: 2},
		&Member{Id: 3, Name: "Spike", TeamId: 1},
	).Exec(ctx)
	require.NoError(s.T(), res.Err())
}

func (s *Suite) TearDownSuite() {
	ctx := context.Background()
	for _, tbl := range []string{"member", "team"} {
		_, err := s.db.Exec(ctx, "DROP TABLE "+tbl)
		s.NoError(err)
	}
	s.NoError(s.db.Close())
}

func (s *Suite) TestGet() {
	testCases := []struct {
		name    string
		s       *orm.Selector[Member]
		wantRes *Member
		wantErr error
	}{
		{
			name:    "get data",
			s:       orm.NewSelector[Member](s.db).Where(orm.C("Id").Eq(2)),
			wantRes: &Member{Id: 2, Name: "Jerry", TeamId: 2},
		},
		{
			name:    "no row",
			s:       orm.NewSelector[Member](s.db).Where(orm.C("Id").Eq(200)),
			wantErr: orm.ErrNoRows,
		},
		{
			name: "join",
			s: orm.NewSelector[Member](s.db).As("m").
				InnerJoinAndSelect("m.Team", "t").
				Where(orm.Cond("t.name = :team", orm.Params{"team": "blue"})),
			wantRes: &Member{Id: 2, Name: "Jerry", TeamId: 2, Team: &Team{Id: 2, Name: "blue"}},
		},
	}
	for _, tc := range testCases {
		s.T().Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			res, err := tc.s.Get(ctx)
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.wantRes, res)
		})
	}
}

func (s *Suite) TestGetMulti() {
	t := s.T()
	res, err := orm.NewSelector[Member](s.db).As("m").
		Where(orm.Cond("m.team_id = :team", orm.Params{"team": 1})).
		OrderBy(orm.PK("m").Desc()).
		GetMulti(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*Member{
		{Id: 3, Name: "Spike", TeamId: 1},
		{Id: 1, Name: "Tom", TeamId: 1},
	}, res)

	teams, err := orm.RawQuery[Team](s.db, "SELECT id, name FROM team ORDER BY id").GetMulti(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*Team{{Id: 1, Name: "red"}, {Id: 2, Name: "blue"}}, teams)
}

func (s *Suite) TestDoTx() {
	t := s.T()
	ctx := context.Background()
	bizErr := errors.New("biz error")
	err := s.db.DoTx(ctx, func(ctx context.Context, tx *orm.Tx) error {
		res := orm.NewInserter[Team](tx).Values(&Team{Id: 10, Name: "green"}).Exec(ctx)
		require.NoError(t, res.Err())
		return bizErr
	}, nil)
	assert.Equal(t, bizErr, err)
	_, err = orm.NewSelector[Team](s.db).Where(orm.C("Id").Eq(10)).Get(ctx)
	assert.Equal(t, orm.ErrNoRows, err)
}

func (s *Suite) TestUpsert() {
	t := s.T()
	ctx := context.Background()
	ins := orm.NewInserter[Team](s.db).Values(&Team{Id: 20, Name: "gray"})
	require.NoError(t, ins.Exec(ctx).Err())

	ins = orm.NewInserter[Team](s.db).Values(&Team{Id: 20, Name: "gray"}).
		OnDuplicateKey().ConflictColumns("Id").Update(orm.Assign("Name", "silver"))
	require.NoError(t, ins.Exec(ctx).Err())

	res, err := orm.NewSelector[Team](s.db).Where(orm.C("Id").Eq(20)).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "silver", res.Name)
}

type Team struct {
	Id   int64
	Name string
}

type Member struct {
	Id     int64
	Name   string
	TeamId int64
	Team   *Team
}
