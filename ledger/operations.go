package ledger

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vocdoni/commitreveal-sandbox/circuits"
	"github.com/vocdoni/commitreveal-sandbox/circuits/commitproof"
	"github.com/vocdoni/commitreveal-sandbox/circuits/revealproof"
	"github.com/vocdoni/commitreveal-sandbox/log"
	"github.com/vocdoni/commitreveal-sandbox/types"
	"github.com/vocdoni/commitreveal-sandbox/util"
)

// CreateBallot creates a new ballot with the given window and assigns it
// the next sequential identifier. The commit window is [startTime,
// startTime+commitDuration] and the reveal window runs until
// startTime+duration, so commitDuration must be strictly shorter than
// duration.
func (l *Ledger) CreateBallot(admin common.Address, title string, choices []string,
	startTime time.Time, duration, commitDuration time.Duration,
) (types.BallotID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(choices) < 2 {
		return 0, ErrTooFewChoices
	}
	now := l.now()
	if !startTime.After(now) {
		return 0, ErrStartTimeNotFuture
	}
	if commitDuration <= 0 || commitDuration >= duration {
		return 0, ErrBadPhaseWindow
	}
	ballot := &types.Ballot{
		Title:         title,
		Choices:       choices,
		Admin:         admin,
		StartTime:     startTime,
		CommitEndTime: startTime.Add(commitDuration),
		EndTime:       startTime.Add(duration),
		Tally:         make([]uint64, len(choices)),
	}
	ev := &types.Event{
		Type: types.EventBallotCreated,
		Time: now,
	}
	id, err := l.stg.CreateBallot(ballot, ev)
	if err != nil {
		return 0, fmt.Errorf("store ballot: %w", err)
	}
	log.Infow("ballot created", "ballotId", id.String(), "title", title,
		"choices", len(choices), "admin", admin.Hex())
	l.publish(ev)
	return id, nil
}

// RegisterVoters registers the given identities as voters of the ballot.
// Only the ballot admin may register, and only before the ballot starts.
// Already registered identities are skipped, so the call is idempotent.
// Once any voter is registered, commit submissions are restricted to
// registered senders.
func (l *Ledger) RegisterVoters(caller common.Address, id types.BallotID,
	identities []common.Address,
) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ballot, err := l.Ballot(id)
	if err != nil {
		return err
	}
	if caller != ballot.Admin {
		return ErrNotAdmin
	}
	now := l.now()
	if !now.Before(ballot.StartTime) {
		return ErrRegistrationClosed
	}
	var fresh []common.Address
	for _, identity := range identities {
		registered, err := l.stg.IsRegistered(id, identity)
		if err != nil {
			return err
		}
		if !registered {
			fresh = append(fresh, identity)
		}
	}
	if len(fresh) == 0 {
		return nil
	}
	ballot.HasRegisteredVoters = true
	ev := &types.Event{
		Type:     types.EventVotersRegistered,
		BallotID: id,
		Time:     now,
		Voters:   fresh,
	}
	if err := l.stg.RegisterVoters(ballot, fresh, ev); err != nil {
		return fmt.Errorf("store registrations: %w", err)
	}
	log.Infow("voters registered", "ballotId", id.String(), "count", len(fresh))
	l.publish(ev)
	return nil
}

// CommitVote records a vote commitment during the commit window. The
// commitment must be a canonical scalar field element, unique within the
// ballot, and the proof must verify
// against the public input vector [commitment]. When the ballot has
// registered voters the sender must be one of them.
func (l *Ledger) CommitVote(sender common.Address, id types.BallotID,
	commitment *types.BigInt, proof *types.ProofData,
) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ballot, err := l.Ballot(id)
	if err != nil {
		return err
	}
	if ballot.Finalized {
		return ErrBallotFinalized
	}
	now := l.now()
	if ballot.PhaseAt(now) != types.PhaseCommit {
		return ErrCommitPhaseClosed
	}
	if ballot.HasRegisteredVoters {
		registered, err := l.stg.IsRegistered(id, sender)
		if err != nil {
			return err
		}
		if !registered {
			return ErrVoterNotRegistered
		}
	}
	if !inScalarField(commitment) {
		return ErrValueOutOfField
	}
	exists, err := l.stg.HasCommitment(id, commitment)
	if err != nil {
		return err
	}
	if exists {
		return ErrCommitmentExists
	}
	publicInputs := circuits.BigIntsToPublicInputs(
		commitproof.PublicInputs(commitment.MathBigInt()))
	if err := l.verify(l.commitVerifier, proof, publicInputs); err != nil {
		return err
	}
	ev := &types.Event{
		Type:     types.EventVoteCommitted,
		BallotID: id,
		Time:     now,
		Value:    commitment,
	}
	if err := l.stg.ApplyCommit(id, commitment, ev); err != nil {
		return fmt.Errorf("store commitment: %w", err)
	}
	log.Debugw("vote committed", "ballotId", id.String(), "commitment", commitment.String())
	l.publish(ev)
	return nil
}

// RevealVote consumes a nullifier and counts the revealed choice during the
// reveal window. The nullifier must be a canonical scalar field element and
// the proof must verify against the public input vector
// [choice, nullifier, sender, ballotId]. The reveal is accepted on
// nullifier consistency alone; membership of the underlying commitment is
// not proven (see the reveal circuit).
func (l *Ledger) RevealVote(sender common.Address, id types.BallotID, choice uint64,
	nullifier *types.BigInt, proof *types.ProofData,
) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ballot, err := l.Ballot(id)
	if err != nil {
		return err
	}
	if ballot.Finalized {
		return ErrBallotFinalized
	}
	now := l.now()
	if ballot.PhaseAt(now) != types.PhaseReveal {
		return ErrRevealPhaseClosed
	}
	if choice >= uint64(len(ballot.Choices)) {
		return ErrInvalidChoice
	}
	if !inScalarField(nullifier) {
		return ErrValueOutOfField
	}
	used, err := l.stg.HasNullifier(id, nullifier)
	if err != nil {
		return err
	}
	if used {
		return ErrNullifierUsed
	}
	publicInputs := circuits.BigIntsToPublicInputs(revealproof.PublicInputs(
		new(big.Int).SetUint64(choice),
		nullifier.MathBigInt(),
		new(big.Int).SetBytes(sender.Bytes()),
		new(big.Int).SetUint64(uint64(id)),
	))
	if err := l.verify(l.revealVerifier, proof, publicInputs); err != nil {
		return err
	}
	if len(ballot.Tally) != len(ballot.Choices) {
		ballot.Tally = make([]uint64, len(ballot.Choices))
	}
	ballot.Tally[choice]++
	ev := &types.Event{
		Type:     types.EventVoteRevealed,
		BallotID: id,
		Time:     now,
		Value:    nullifier,
		Choice:   &choice,
	}
	if err := l.stg.ApplyReveal(ballot, nullifier, ev); err != nil {
		return fmt.Errorf("store reveal: %w", err)
	}
	log.Debugw("vote revealed", "ballotId", id.String(), "choice", choice,
		"nullifier", nullifier.String())
	l.publish(ev)
	return nil
}

// FinalizeBallot marks an ended ballot as finalized. Any caller may
// finalize, exactly once, after the reveal window closes.
func (l *Ledger) FinalizeBallot(id types.BallotID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ballot, err := l.Ballot(id)
	if err != nil {
		return err
	}
	if ballot.Finalized {
		return ErrBallotFinalized
	}
	now := l.now()
	if ballot.PhaseAt(now) != types.PhaseEnded {
		return ErrBallotNotEnded
	}
	ballot.Finalized = true
	ev := &types.Event{
		Type:     types.EventBallotFinalized,
		BallotID: id,
		Time:     now,
		Tally:    append([]uint64{}, ballot.Tally...),
	}
	if err := l.stg.FinalizeBallot(ballot, ev); err != nil {
		return fmt.Errorf("store finalization: %w", err)
	}
	log.Infow("ballot finalized", "ballotId", id.String(), "tally", fmt.Sprint(ballot.Tally))
	l.publish(ev)
	return nil
}

// Results returns the tally vector of a finalized ballot.
func (l *Ledger) Results(id types.BallotID) ([]uint64, error) {
	ballot, err := l.Ballot(id)
	if err != nil {
		return nil, err
	}
	if !ballot.Finalized {
		return nil, ErrNotFinalized
	}
	return append([]uint64{}, ballot.Tally...), nil
}

// inScalarField reports whether v is a canonical BN254 scalar field
// element. The Groth16 verifier reduces public inputs modulo the scalar
// field, so a value >= the modulus would verify as its reduction while
// being stored under a distinct key. Rejecting non-canonical submissions
// keeps the stored commitment and nullifier sets in bijection with the
// field elements the proofs are bound to.
func inScalarField(v *types.BigInt) bool {
	b := v.MathBigInt()
	return util.BigToFF(b).Cmp(b) == 0
}

// verify runs the proof through the verifier, mapping a false result and a
// verifier fault to the same rejection.
func (l *Ledger) verify(verifier ProofVerifier, proof *types.ProofData,
	publicInputs []*types.BigInt,
) error {
	if err := proof.Valid(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	ok, err := verifier.VerifyProof(proof, publicInputs)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	if !ok {
		return ErrInvalidProof
	}
	return nil
}
